// Package export reads and writes DynamoDB-JSON export files.
//
// The format is the one produced by DynamoDB's "Export to S3" feature: each
// data file holds one JSON object per line,
//
//	{"Item":{"id":{"S":"test"},"counter":{"N":"0"}}}
//
// optionally compressed. Files are stored in any blobstore.BlobStore, so the
// same code handles local directories, S3 and MinIO.
//
// Items are decoded with avjson.DecodeWire, which tolerates attribute values
// that populate more than one slot.
package export
