package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/boycottpro/boycottpro-backend/internal/platform/envutil"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
)

// API is the slice of the DynamoDB client the repos depend on. It mirrors
// the store contract: point gets, single-partition queries, atomic
// multi-item writes, and single-item updates.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// NewClient builds the shared DynamoDB client. DYNAMODB_ENDPOINT points the
// client at a local stack when set.
func NewClient(ctx context.Context, log *logger.Logger) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := envutil.Str("DYNAMODB_ENDPOINT", "")
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	if log != nil {
		log.Info("DynamoDB client ready", "region", cfg.Region, "endpoint_override", endpoint != "")
	}
	return client, nil
}
