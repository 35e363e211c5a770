package repos

import (
	"context"
	"fmt"
	"testing"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo/dynamotest"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

func newFollowStore(t *testing.T) (*dynamotest.Store, UserCauseRepo) {
	t.Helper()
	store := dynamotest.NewStore(map[string][]string{"user_causes": {"user_id", "cause_id"}})
	repo := NewUserCauseRepo(store, "user_causes", logger.NewNop())
	return store, repo
}

func TestIsFollowing(t *testing.T) {
	store, repo := newFollowStore(t)
	if err := store.Put("user_causes", types.CauseFollow{
		UserID: "u1", CauseID: "c1", CauseDesc: "Labor rights", Timestamp: "2026-01-02T03:04:05Z",
	}); err != nil {
		t.Fatalf("seed follow: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  string
		causeID string
		want    bool
	}{
		{name: "following", userID: "u1", causeID: "c1", want: true},
		{name: "other_cause", userID: "u1", causeID: "c2", want: false},
		{name: "other_user", userID: "u2", causeID: "c1", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.IsFollowing(ctx, tc.userID, tc.causeID)
			if err != nil {
				t.Fatalf("IsFollowing: %v", err)
			}
			if got != tc.want {
				t.Fatalf("IsFollowing(%s, %s) = %v, want %v", tc.userID, tc.causeID, got, tc.want)
			}
		})
	}
}

func TestIsFollowingPropagatesStoreError(t *testing.T) {
	store, repo := newFollowStore(t)
	store.FailQuery["user_causes"] = fmt.Errorf("throttled")

	_, err := repo.IsFollowing(context.Background(), "u1", "c1")
	if err == nil {
		t.Fatal("expected store error")
	}
}

func TestPutFollowAction(t *testing.T) {
	store, repo := newFollowStore(t)
	tx := NewTransactionRepo(store, logger.NewNop())

	action, err := repo.PutFollowAction(&types.CauseFollow{
		UserID: "u1", CauseID: "c1", CauseDesc: "Labor rights", Timestamp: "2026-01-02T03:04:05Z",
	})
	if err != nil {
		t.Fatalf("PutFollowAction: %v", err)
	}
	if err := tx.Write(context.Background(), []ddbtypes.TransactWriteItem{action}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	item := store.Get("user_causes", "u1", "c1")
	if item == nil {
		t.Fatal("follow row missing")
	}
	if got := dynamotest.StrAttr(item, "cause_desc"); got != "Labor rights" {
		t.Errorf("cause_desc = %q", got)
	}
	if got := dynamotest.StrAttr(item, "timestamp"); got != "2026-01-02T03:04:05Z" {
		t.Errorf("timestamp = %q", got)
	}
}
