package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

// CompanyCauseKey builds the fact sort-key discriminator for a cause-backed
// fact.
func CompanyCauseKey(companyID, causeID string) string {
	return companyID + "#" + causeID
}

// PersonalReasonKey builds the discriminator for a personal-reason fact.
// Reversed order relative to CompanyCauseKey keeps the two forms from
// colliding.
func PersonalReasonKey(personalReason, companyID string) string {
	return personalReason + "#" + companyID
}

// UserBoycottRepo covers the user_boycotts fact table: the three duplicate
// detectors and the fact contribution to a write set. Facts are never
// mutated or deleted here.
type UserBoycottRepo interface {
	// HasAnyBoycott reports whether any fact for this user references the
	// company. Callers resolve it once, before any writes, so the answer
	// reflects pre-request state.
	HasAnyBoycott(ctx context.Context, userID, companyID string) (bool, error)
	// HasSpecificBoycott reports whether a fact exists for the exact
	// (user, company, cause) triple.
	HasSpecificBoycott(ctx context.Context, userID, companyID, causeID string) (bool, error)
	// HasPersonalReason reports whether a fact exists for this user and
	// company with a case-insensitive-equal personal reason.
	HasPersonalReason(ctx context.Context, userID, companyID, personalReason string) (bool, error)
	// PutFactAction is the write-set action inserting one fact row.
	PutFactAction(fact *types.BoycottFact) (ddbtypes.TransactWriteItem, error)
}

type userBoycottRepo struct {
	client dynamo.API
	table  string
	log    *logger.Logger
}

func NewUserBoycottRepo(client dynamo.API, table string, baseLog *logger.Logger) UserBoycottRepo {
	return &userBoycottRepo{client: client, table: table, log: baseLog.With("repo", "UserBoycottRepo")}
}

func (ur *userBoycottRepo) HasAnyBoycott(ctx context.Context, userID, companyID string) (bool, error) {
	facts, err := ur.queryByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, fact := range facts {
		if fact.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (ur *userBoycottRepo) HasSpecificBoycott(ctx context.Context, userID, companyID, causeID string) (bool, error) {
	out, err := ur.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(ur.table),
		KeyConditionExpression: aws.String("user_id = :uid AND company_cause_id = :ccid"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":uid":  &ddbtypes.AttributeValueMemberS{Value: userID},
			":ccid": &ddbtypes.AttributeValueMemberS{Value: CompanyCauseKey(companyID, causeID)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) > 0, nil
}

func (ur *userBoycottRepo) HasPersonalReason(ctx context.Context, userID, companyID, personalReason string) (bool, error) {
	facts, err := ur.queryByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, fact := range facts {
		if fact.CompanyID == companyID &&
			fact.PersonalReason != "" &&
			strings.EqualFold(fact.PersonalReason, personalReason) {
			return true, nil
		}
	}
	return false, nil
}

func (ur *userBoycottRepo) PutFactAction(fact *types.BoycottFact) (ddbtypes.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(fact)
	if err != nil {
		return ddbtypes.TransactWriteItem{}, fmt.Errorf("marshal boycott fact: %w", err)
	}
	return ddbtypes.TransactWriteItem{
		Put: &ddbtypes.Put{TableName: aws.String(ur.table), Item: item},
	}, nil
}

func (ur *userBoycottRepo) queryByUser(ctx context.Context, userID string) ([]types.BoycottFact, error) {
	out, err := ur.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(ur.table),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":uid": &ddbtypes.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var facts []types.BoycottFact
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &facts); err != nil {
		return nil, fmt.Errorf("unmarshal boycott facts: %w", err)
	}
	return facts, nil
}
