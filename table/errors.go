package table

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrNotFound is returned by Get when no item has the given key.
	ErrNotFound = errors.New("item not found")

	// ErrConditionFailed is returned when a conditional write is rejected.
	ErrConditionFailed = errors.New("condition check failed")

	// ErrTableNotFound is returned when the table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrThrottled is returned when DynamoDB keeps throttling a request.
	ErrThrottled = errors.New("request throttled")

	// ErrUnprocessed is returned when batch items remain unprocessed after all retries.
	ErrUnprocessed = errors.New("unprocessed batch items")
)

// translateError maps SDK errors onto the sentinel errors of this package,
// keeping the original error in the chain.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%s: %w: %w", op, ErrConditionFailed, err)
	}
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return fmt.Errorf("%s: %w: %w", op, ErrTableNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ProvisionedThroughputExceededException", "RequestLimitExceeded":
			return fmt.Errorf("%s: %w: %w", op, ErrThrottled, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
