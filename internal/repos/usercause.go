package repos

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

// UserCauseRepo covers the user_causes follow table. IsFollowing gates
// whether a write set carries the follow insert and the follower-count
// bump; skipping it when a follow exists is what keeps the counter from
// double-incrementing.
type UserCauseRepo interface {
	IsFollowing(ctx context.Context, userID, causeID string) (bool, error)
	PutFollowAction(follow *types.CauseFollow) (ddbtypes.TransactWriteItem, error)
}

type userCauseRepo struct {
	client dynamo.API
	table  string
	log    *logger.Logger
}

func NewUserCauseRepo(client dynamo.API, table string, baseLog *logger.Logger) UserCauseRepo {
	return &userCauseRepo{client: client, table: table, log: baseLog.With("repo", "UserCauseRepo")}
}

func (ur *userCauseRepo) IsFollowing(ctx context.Context, userID, causeID string) (bool, error) {
	out, err := ur.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(ur.table),
		KeyConditionExpression: aws.String("user_id = :uid AND cause_id = :cid"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":uid": &ddbtypes.AttributeValueMemberS{Value: userID},
			":cid": &ddbtypes.AttributeValueMemberS{Value: causeID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) > 0, nil
}

func (ur *userCauseRepo) PutFollowAction(follow *types.CauseFollow) (ddbtypes.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(follow)
	if err != nil {
		return ddbtypes.TransactWriteItem{}, fmt.Errorf("marshal cause follow: %w", err)
	}
	return ddbtypes.TransactWriteItem{
		Put: &ddbtypes.Put{TableName: aws.String(ur.table), Item: item},
	}, nil
}
