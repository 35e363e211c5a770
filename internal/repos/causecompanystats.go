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

// CauseCompanyStatsRepo covers the cause_company_stats table. The probe
// decides insert-vs-increment for a write set: a first boycott of a
// (cause, company) pair inserts the row at count 1 with label snapshots,
// later ones increment in place.
type CauseCompanyStatsRepo interface {
	Exists(ctx context.Context, causeID, companyID string) (bool, error)
	IncrementAction(causeID, companyID string) ddbtypes.TransactWriteItem
	InsertAction(stat *types.CauseCompanyStat) (ddbtypes.TransactWriteItem, error)
}

type causeCompanyStatsRepo struct {
	client dynamo.API
	table  string
	log    *logger.Logger
}

func NewCauseCompanyStatsRepo(client dynamo.API, table string, baseLog *logger.Logger) CauseCompanyStatsRepo {
	return &causeCompanyStatsRepo{client: client, table: table, log: baseLog.With("repo", "CauseCompanyStatsRepo")}
}

func (sr *causeCompanyStatsRepo) Exists(ctx context.Context, causeID, companyID string) (bool, error) {
	out, err := sr.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(sr.table),
		Key: map[string]ddbtypes.AttributeValue{
			"cause_id":   &ddbtypes.AttributeValueMemberS{Value: causeID},
			"company_id": &ddbtypes.AttributeValueMemberS{Value: companyID},
		},
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (sr *causeCompanyStatsRepo) IncrementAction(causeID, companyID string) ddbtypes.TransactWriteItem {
	return ddbtypes.TransactWriteItem{
		Update: &ddbtypes.Update{
			TableName: aws.String(sr.table),
			Key: map[string]ddbtypes.AttributeValue{
				"cause_id":   &ddbtypes.AttributeValueMemberS{Value: causeID},
				"company_id": &ddbtypes.AttributeValueMemberS{Value: companyID},
			},
			UpdateExpression: aws.String("SET boycott_count = if_not_exists(boycott_count, :zero) + :inc"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":zero": &ddbtypes.AttributeValueMemberN{Value: "0"},
				":inc":  &ddbtypes.AttributeValueMemberN{Value: "1"},
			},
		},
	}
}

func (sr *causeCompanyStatsRepo) InsertAction(stat *types.CauseCompanyStat) (ddbtypes.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(stat)
	if err != nil {
		return ddbtypes.TransactWriteItem{}, fmt.Errorf("marshal cause company stat: %w", err)
	}
	return ddbtypes.TransactWriteItem{
		Put: &ddbtypes.Put{TableName: aws.String(sr.table), Item: item},
	}, nil
}
