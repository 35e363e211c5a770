package repos

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
)

// CauseRepo covers the causes table: label validation and the follower
// counter contribution for a write set.
type CauseRepo interface {
	// ValidateDescription reports whether a cause exists under causeID with
	// exactly the given description.
	ValidateDescription(ctx context.Context, causeID, causeDesc string) (bool, error)
	// FollowerIncrementAction is the write-set action that bumps the
	// cause's follower_count, defaulting a missing counter to zero first.
	// Only included when a new CauseFollow is created in the same set.
	FollowerIncrementAction(causeID string) ddbtypes.TransactWriteItem
}

type causeRepo struct {
	client dynamo.API
	table  string
	log    *logger.Logger
}

func NewCauseRepo(client dynamo.API, table string, baseLog *logger.Logger) CauseRepo {
	return &causeRepo{client: client, table: table, log: baseLog.With("repo", "CauseRepo")}
}

func (cr *causeRepo) ValidateDescription(ctx context.Context, causeID, causeDesc string) (bool, error) {
	out, err := cr.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(cr.table),
		Key: map[string]ddbtypes.AttributeValue{
			"cause_id": &ddbtypes.AttributeValueMemberS{Value: causeID},
		},
		ProjectionExpression: aws.String("cause_desc"),
	})
	if err != nil {
		return false, err
	}
	if out.Item == nil {
		return false, nil
	}
	stored, ok := out.Item["cause_desc"].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return false, nil
	}
	return stored.Value == causeDesc, nil
}

func (cr *causeRepo) FollowerIncrementAction(causeID string) ddbtypes.TransactWriteItem {
	return ddbtypes.TransactWriteItem{
		Update: &ddbtypes.Update{
			TableName: aws.String(cr.table),
			Key: map[string]ddbtypes.AttributeValue{
				"cause_id": &ddbtypes.AttributeValueMemberS{Value: causeID},
			},
			UpdateExpression: aws.String("SET follower_count = if_not_exists(follower_count, :zero) + :inc"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":zero": &ddbtypes.AttributeValueMemberN{Value: "0"},
				":inc":  &ddbtypes.AttributeValueMemberN{Value: "1"},
			},
		},
	}
}
