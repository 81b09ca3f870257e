// Package table is a thin DynamoDB table client built on avjson.
//
// Items and keys are ordinary Go values; the table encodes them into field
// maps before each request and decodes results back:
//
//	tbl, err := table.Load(ctx, "scratch", table.WithRegion("us-west-2"))
//	err = tbl.Put(ctx, Account{ID: "test", TS: "today"})
//
//	var acc Account
//	err = tbl.Get(ctx, map[string]string{"id": "test"}, &acc)
//
// The SDK client is accessed through the Client interface so tests can use
// an in-memory fake.
package table
