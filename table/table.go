package table

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/avjson"
	"github.com/hupe1980/avjson/value"
)

// batchSize is the BatchWriteItem request limit.
const batchSize = 25

// Client is the subset of the DynamoDB API used by Table.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Table reads and writes items of one DynamoDB table.
type Table struct {
	client Client
	name   string
	opts   options
	logger *avjson.Logger
}

// New creates a Table using client.
func New(client Client, name string, optFns ...Option) *Table {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Table{
		client: client,
		name:   name,
		opts:   opts,
		logger: opts.logger.WithTable(name),
	}
}

// Load creates a Table with a client built from the default AWS
// configuration chain (environment, shared config, instance role).
func Load(ctx context.Context, name string, optFns ...Option) (*Table, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var cfgOpts []func(*config.LoadOptions) error
	if opts.region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.endpoint != "" {
			o.BaseEndpoint = aws.String(opts.endpoint)
		}
	})
	return New(client, name, optFns...), nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// PutOption configures a single Put.
type PutOption func(*dynamodb.PutItemInput)

// IfNotExists makes Put fail with ErrConditionFailed when an item with the
// same key already exists. attr is any key attribute of the table.
func IfNotExists(attr string) PutOption {
	return func(in *dynamodb.PutItemInput) {
		in.ConditionExpression = aws.String("attribute_not_exists(#k)")
		in.ExpressionAttributeNames = avjson.Names("#k", attr)
	}
}

// Put writes item, which must serialize to an object, replacing any item
// with the same key.
func (t *Table) Put(ctx context.Context, item any, optFns ...PutOption) error {
	fields, err := t.opts.codec.ToFields(item)
	if err != nil {
		return err
	}
	return t.PutFields(ctx, fields, optFns...)
}

// PutFields writes an already encoded item.
func (t *Table) PutFields(ctx context.Context, fields map[string]types.AttributeValue, optFns ...PutOption) error {
	in := &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      fields,
	}
	for _, fn := range optFns {
		fn(in)
	}

	start := time.Now()
	_, err := t.client.PutItem(ctx, in)
	err = translateError("put item", err)
	t.opts.metrics.RecordPut(time.Since(start), err)
	t.logger.LogRequest(ctx, "put item", len(fields), err)
	return err
}

// Get reads the item with the given key into out. It returns ErrNotFound if
// there is no such item.
func (t *Table) Get(ctx context.Context, key any, out any) error {
	keyFields, err := t.opts.codec.ToFields(key)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.name),
		Key:            keyFields,
		ConsistentRead: aws.Bool(t.opts.consistentRead),
	})
	err = translateError("get item", err)
	if err == nil && len(resp.Item) == 0 {
		err = ErrNotFound
	}
	t.opts.metrics.RecordGet(time.Since(start), err)
	if err != nil {
		t.logger.LogRequest(ctx, "get item", 0, err)
		return err
	}
	t.logger.LogRequest(ctx, "get item", len(resp.Item), nil)
	return t.opts.codec.FromFields(resp.Item, out)
}

// Delete removes the item with the given key. Deleting a missing item is not an error.
func (t *Table) Delete(ctx context.Context, key any) error {
	keyFields, err := t.opts.codec.ToFields(key)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       keyFields,
	})
	err = translateError("delete item", err)
	t.opts.metrics.RecordDelete(time.Since(start), err)
	t.logger.LogRequest(ctx, "delete item", len(keyFields), err)
	return err
}

// Query describes a key condition query.
type Query struct {
	// KeyCondition is the key condition expression, e.g. "#pk = :pk".
	KeyCondition string
	// Names maps expression placeholders to attribute names; see avjson.Names.
	Names map[string]string
	// Values holds the expression values. It must serialize to an object
	// whose keys are the ":placeholders".
	Values any
	// IndexName optionally queries a secondary index.
	IndexName string
	// Limit caps the total number of items returned. Zero means no limit.
	Limit int
	// Descending reverses the sort key order.
	Descending bool
}

// Query runs q and decodes all matching items into out, which must be a
// pointer to a slice (or a *value.Value).
func (t *Table) Query(ctx context.Context, q Query, out any) error {
	var values map[string]types.AttributeValue
	if q.Values != nil {
		var err error
		if values, err = t.opts.codec.ToFields(q.Values); err != nil {
			return err
		}
	}

	in := &dynamodb.QueryInput{
		TableName:                 aws.String(t.name),
		KeyConditionExpression:    aws.String(q.KeyCondition),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(!q.Descending),
		ConsistentRead:            aws.Bool(t.opts.consistentRead),
	}
	if len(q.Names) > 0 {
		in.ExpressionAttributeNames = q.Names
	}
	if q.IndexName != "" {
		in.IndexName = aws.String(q.IndexName)
	}

	start := time.Now()
	items := value.Array{}
	paginator := dynamodb.NewQueryPaginator(t.client, in)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			err = translateError("query", err)
			t.opts.metrics.RecordQuery(len(items), time.Since(start), err)
			t.logger.LogRequest(ctx, "query", len(items), err)
			return err
		}
		for _, item := range page.Items {
			obj, err := t.opts.codec.DecodeFields(item)
			if err != nil {
				t.opts.metrics.RecordQuery(len(items), time.Since(start), err)
				t.logger.LogRequest(ctx, "query", len(items), err)
				return err
			}
			items = append(items, obj)
			if q.Limit > 0 && len(items) >= q.Limit {
				break
			}
		}
		if q.Limit > 0 && len(items) >= q.Limit {
			break
		}
	}
	t.opts.metrics.RecordQuery(len(items), time.Since(start), nil)
	t.logger.LogRequest(ctx, "query", len(items), nil)
	return t.opts.codec.FromValue(items, out)
}

// BatchPut writes items in BatchWriteItem chunks of 25. Unprocessed items
// are resubmitted with exponential backoff; throttling set by
// WithRateLimit applies to every request.
func (t *Table) BatchPut(ctx context.Context, items []any) error {
	requests := make([]types.WriteRequest, 0, len(items))
	for i, item := range items {
		fields, err := t.opts.codec.ToFields(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: fields},
		})
	}

	for start := 0; start < len(requests); start += batchSize {
		end := min(start+batchSize, len(requests))
		if err := t.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	backoff := 50 * time.Millisecond
	for attempt := 0; ; attempt++ {
		if err := t.opts.limiter.Wait(ctx); err != nil {
			return err
		}

		start := time.Now()
		resp, err := t.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{t.name: requests},
		})
		if err != nil {
			err = translateError("batch write", err)
			t.opts.metrics.RecordBatchWrite(len(requests), len(requests), time.Since(start))
			t.logger.LogBatch(ctx, len(requests), len(requests), err)
			return err
		}

		unprocessed := resp.UnprocessedItems[t.name]
		t.opts.metrics.RecordBatchWrite(len(requests), len(unprocessed), time.Since(start))
		t.logger.LogBatch(ctx, len(requests), len(unprocessed), nil)
		if len(unprocessed) == 0 {
			return nil
		}
		if attempt >= t.opts.maxRetries {
			return fmt.Errorf("batch write: %w: %d items", ErrUnprocessed, len(unprocessed))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		requests = unprocessed
	}
}
