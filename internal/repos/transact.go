package repos

import (
	"context"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
)

// TransactionRepo submits one write set as a single all-or-nothing
// transaction. Either every item in the set is applied or none is; that is
// the mechanism keeping counters in lockstep with facts.
type TransactionRepo interface {
	Write(ctx context.Context, items []ddbtypes.TransactWriteItem) error
}

type transactionRepo struct {
	client dynamo.API
	log    *logger.Logger
}

func NewTransactionRepo(client dynamo.API, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{client: client, log: baseLog.With("repo", "TransactionRepo")}
}

func (tr *transactionRepo) Write(ctx context.Context, items []ddbtypes.TransactWriteItem) error {
	tr.log.Debug("submitting write set", "item_count", len(items))
	_, err := tr.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return err
}
