package table

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/hupe1980/avjson"
	"github.com/hupe1980/avjson/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB table with a string partition key
// "pk" and a numeric sort key "sk".
type mockDDBClient struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int

	// unprocessed makes the next n BatchWriteItem calls return their last
	// request as unprocessed.
	unprocessed int
	batchCalls  int
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items:    make(map[string]map[string]types.AttributeValue),
		pageSize: 2,
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk := item["pk"].(*types.AttributeValueMemberS).Value
	sk := item["sk"].(*types.AttributeValueMemberN).Value
	return pk + ":" + sk
}

func sortKey(item map[string]types.AttributeValue) int {
	n, _ := strconv.Atoi(item["sk"].(*types.AttributeValueMemberN).Value)
	return n
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(#k)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &dynamodb.GetItemOutput{Item: m.items[itemKey(params.Key)]}, nil
}

func (m *mockDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pk := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["pk"].(*types.AttributeValueMemberS).Value == pk {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return sortKey(items[i]) < sortKey(items[j]) })
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	if params.ExclusiveStartKey != nil {
		start := itemKey(params.ExclusiveStartKey)
		for i, item := range items {
			if itemKey(item) == start {
				items = items[i+1:]
				break
			}
		}
	}

	out := &dynamodb.QueryOutput{}
	if len(items) > m.pageSize {
		items = items[:m.pageSize]
		last := items[len(items)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"pk": last["pk"], "sk": last["sk"]}
	}
	out.Items = items
	return out, nil
}

func (m *mockDDBClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchCalls++
	out := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for name, requests := range params.RequestItems {
		if m.unprocessed > 0 && len(requests) > 0 {
			m.unprocessed--
			out.UnprocessedItems[name] = requests[len(requests)-1:]
			requests = requests[:len(requests)-1]
		}
		for _, req := range requests {
			m.items[itemKey(req.PutRequest.Item)] = req.PutRequest.Item
		}
	}
	return out, nil
}

type order struct {
	PK   string `json:"pk"`
	SK   int    `json:"sk"`
	Note string `json:"note"`
}

func TestTable_PutGet(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	tbl := New(client, "orders")
	assert.Equal(t, "orders", tbl.Name())

	require.NoError(t, tbl.Put(ctx, order{PK: "a", SK: 1, Note: ""}))

	stored := client.items["a:1"]
	require.NotNil(t, stored)
	assert.Equal(t, &types.AttributeValueMemberS{Value: avjson.EmptyStringSentinel}, stored["note"])

	var got order
	require.NoError(t, tbl.Get(ctx, map[string]any{"pk": "a", "sk": 1}, &got))
	assert.Equal(t, order{PK: "a", SK: 1, Note: ""}, got)
}

func TestTable_GetNotFound(t *testing.T) {
	tbl := New(newMockDDBClient(), "orders")

	var got order
	err := tbl.Get(context.Background(), map[string]any{"pk": "a", "sk": 1}, &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTable_PutIfNotExists(t *testing.T) {
	ctx := context.Background()
	tbl := New(newMockDDBClient(), "orders")

	require.NoError(t, tbl.Put(ctx, order{PK: "a", SK: 1}, IfNotExists("pk")))
	err := tbl.Put(ctx, order{PK: "a", SK: 1, Note: "again"}, IfNotExists("pk"))
	assert.ErrorIs(t, err, ErrConditionFailed)

	var cce *types.ConditionalCheckFailedException
	assert.ErrorAs(t, err, &cce)
}

func TestTable_PutRejectsNonObject(t *testing.T) {
	tbl := New(newMockDDBClient(), "orders")

	err := tbl.Put(context.Background(), []int{1, 2})
	assert.ErrorIs(t, err, avjson.ErrNotObject)
}

func TestTable_PutFields(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	tbl := New(client, "orders")

	fields := avjson.MustFields(avjson.F("pk", "b"), avjson.F("sk", 7), avjson.F("tags", []string{"x"}))
	require.NoError(t, tbl.PutFields(ctx, fields))

	var got map[string]any
	require.NoError(t, tbl.Get(ctx, map[string]any{"pk": "b", "sk": 7}, &got))
	assert.Equal(t, []any{"x"}, got["tags"])
}

func TestTable_Delete(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	tbl := New(client, "orders")

	require.NoError(t, tbl.Put(ctx, order{PK: "a", SK: 1}))
	require.NoError(t, tbl.Delete(ctx, map[string]any{"pk": "a", "sk": 1}))
	assert.Empty(t, client.items)

	// Deleting twice is fine.
	require.NoError(t, tbl.Delete(ctx, map[string]any{"pk": "a", "sk": 1}))
}

func TestTable_Query(t *testing.T) {
	ctx := context.Background()
	tbl := New(newMockDDBClient(), "orders")

	for i := 1; i <= 5; i++ {
		require.NoError(t, tbl.Put(ctx, order{PK: "a", SK: i}))
	}
	require.NoError(t, tbl.Put(ctx, order{PK: "b", SK: 1}))

	q := Query{
		KeyCondition: "#pk = :pk",
		Names:        avjson.Names("#pk", "pk"),
		Values:       map[string]any{":pk": "a"},
	}

	t.Run("all pages", func(t *testing.T) {
		var got []order
		require.NoError(t, tbl.Query(ctx, q, &got))
		require.Len(t, got, 5)
		for i, o := range got {
			assert.Equal(t, i+1, o.SK)
		}
	})

	t.Run("descending with limit", func(t *testing.T) {
		q := q
		q.Descending = true
		q.Limit = 3

		var got []order
		require.NoError(t, tbl.Query(ctx, q, &got))
		require.Len(t, got, 3)
		assert.Equal(t, []int{5, 4, 3}, []int{got[0].SK, got[1].SK, got[2].SK})
	})

	t.Run("generic values", func(t *testing.T) {
		var got value.Value
		require.NoError(t, tbl.Query(ctx, q, &got))
		arr, ok := got.(value.Array)
		require.True(t, ok)
		assert.Len(t, arr, 5)
	})

	t.Run("no match", func(t *testing.T) {
		q := q
		q.Values = map[string]any{":pk": "zzz"}

		var got []order
		require.NoError(t, tbl.Query(ctx, q, &got))
		assert.Empty(t, got)
	})
}

func TestTable_BatchPut(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	tbl := New(client, "orders", WithRateLimit(1000, 10))

	items := make([]any, 30)
	for i := range items {
		items[i] = order{PK: "a", SK: i}
	}
	require.NoError(t, tbl.BatchPut(ctx, items))

	assert.Len(t, client.items, 30)
	assert.Equal(t, 2, client.batchCalls)
}

func TestTable_BatchPutRetriesUnprocessed(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.unprocessed = 1
	tbl := New(client, "orders")

	require.NoError(t, tbl.BatchPut(ctx, []any{order{PK: "a", SK: 1}, order{PK: "a", SK: 2}}))
	assert.Len(t, client.items, 2)
	assert.Equal(t, 2, client.batchCalls)
}

func TestTable_BatchPutGivesUp(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.unprocessed = 10
	tbl := New(client, "orders", WithMaxRetries(0))

	err := tbl.BatchPut(ctx, []any{order{PK: "a", SK: 1}, order{PK: "a", SK: 2}})
	assert.ErrorIs(t, err, ErrUnprocessed)
	assert.Len(t, client.items, 1)
}

func TestTable_BatchPutRejectsNonObject(t *testing.T) {
	client := newMockDDBClient()
	tbl := New(client, "orders")

	err := tbl.BatchPut(context.Background(), []any{order{PK: "a", SK: 1}, "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, avjson.ErrNotObject)
	assert.Contains(t, err.Error(), "item 1")
	assert.Zero(t, client.batchCalls)
}

// failingClient returns err from every GetItem call.
type failingClient struct {
	Client
	err error
}

func (c failingClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return nil, c.err
}

func TestTable_TranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"table", &types.ResourceNotFoundException{Message: aws.String("no table")}, ErrTableNotFound},
		{"throttled", &smithy.GenericAPIError{Code: "ThrottlingException"}, ErrThrottled},
		{"provisioned", &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}, ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New(failingClient{err: tt.err}, "orders")

			var got order
			err := tbl.Get(context.Background(), map[string]any{"pk": "a", "sk": 1}, &got)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, tt.err) || errors.As(err, new(smithy.APIError)))
		})
	}

	assert.NoError(t, translateError("noop", nil))
	plain := errors.New("boom")
	assert.ErrorIs(t, translateError("get item", plain), plain)
}

func TestTable_Metrics(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.unprocessed = 1
	metrics := &BasicMetricsCollector{}
	tbl := New(client, "orders", WithMetrics(metrics))

	require.NoError(t, tbl.Put(ctx, order{PK: "a", SK: 1}))
	require.Error(t, tbl.Put(ctx, order{PK: "a", SK: 1}, IfNotExists("pk")))

	var got order
	require.NoError(t, tbl.Get(ctx, map[string]any{"pk": "a", "sk": 1}, &got))
	require.ErrorIs(t, tbl.Get(ctx, map[string]any{"pk": "a", "sk": 2}, &got), ErrNotFound)

	require.NoError(t, tbl.Delete(ctx, map[string]any{"pk": "a", "sk": 1}))
	require.NoError(t, tbl.BatchPut(ctx, []any{order{PK: "b", SK: 1}, order{PK: "b", SK: 2}}))

	var all []order
	require.NoError(t, tbl.Query(ctx, Query{KeyCondition: "pk = :pk", Values: map[string]any{":pk": "b"}}, &all))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.PutCount)
	assert.Equal(t, int64(1), stats.PutErrors)
	assert.Equal(t, int64(2), stats.GetCount)
	assert.Equal(t, int64(1), stats.GetErrors)
	assert.Equal(t, int64(1), stats.DeleteCount)
	assert.Equal(t, int64(1), stats.QueryCount)
	assert.Equal(t, int64(2), stats.QueryItems)
	assert.Equal(t, int64(2), stats.BatchWriteCount)
	assert.Equal(t, int64(3), stats.BatchWriteItems)
	assert.Equal(t, int64(1), stats.BatchUnprocessed)
}

func TestTable_QueryDecodeError(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.items["q:1"] = map[string]types.AttributeValue{
		"pk":  &types.AttributeValueMemberS{Value: "q"},
		"sk":  &types.AttributeValueMemberN{Value: "1"},
		"bad": &types.AttributeValueMemberN{Value: "01"},
	}
	metrics := &BasicMetricsCollector{}
	tbl := New(client, "orders", WithMetrics(metrics))

	var got []map[string]any
	err := tbl.Query(ctx, Query{KeyCondition: "pk = :pk", Values: map[string]any{":pk": "q"}}, &got)
	assert.ErrorIs(t, err, avjson.ErrInvalidNumber)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
}
