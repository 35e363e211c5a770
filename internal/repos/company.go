package repos

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
)

// CompanyRepo covers the companies table: the identity check that gates the
// whole request, and the per-company boycott counter.
type CompanyRepo interface {
	// ValidateName reports whether a company exists under companyID with
	// exactly the given denormalized name.
	ValidateName(ctx context.Context, companyID, companyName string) (bool, error)
	// IncrementBoycottCount bumps the company counter once. The row is
	// assumed to exist; the caller gates this on the pre-request baseline.
	IncrementBoycottCount(ctx context.Context, companyID string) error
}

type companyRepo struct {
	client dynamo.API
	table  string
	log    *logger.Logger
}

func NewCompanyRepo(client dynamo.API, table string, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{client: client, table: table, log: baseLog.With("repo", "CompanyRepo")}
}

func (cr *companyRepo) ValidateName(ctx context.Context, companyID, companyName string) (bool, error) {
	out, err := cr.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(cr.table),
		Key: map[string]ddbtypes.AttributeValue{
			"company_id": &ddbtypes.AttributeValueMemberS{Value: companyID},
		},
		ProjectionExpression: aws.String("company_name"),
	})
	if err != nil {
		return false, err
	}
	if out.Item == nil {
		cr.log.Debug("no company under that id", "company_id", companyID)
		return false, nil
	}
	stored, ok := out.Item["company_name"].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return false, nil
	}
	return stored.Value == companyName, nil
}

func (cr *companyRepo) IncrementBoycottCount(ctx context.Context, companyID string) error {
	_, err := cr.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName: aws.String(cr.table),
		Key: map[string]ddbtypes.AttributeValue{
			"company_id": &ddbtypes.AttributeValueMemberS{Value: companyID},
		},
		UpdateExpression: aws.String("SET boycott_count = boycott_count + :inc"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":inc": &ddbtypes.AttributeValueMemberN{Value: "1"},
		},
	})
	return err
}
