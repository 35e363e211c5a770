package repos

import (
	"context"
	"fmt"
	"testing"

	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo/dynamotest"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
)

type companyItem struct {
	CompanyID    string `dynamodbav:"company_id"`
	CompanyName  string `dynamodbav:"company_name"`
	BoycottCount int    `dynamodbav:"boycott_count"`
}

func newCompanyStore(t *testing.T) *dynamotest.Store {
	t.Helper()
	store := dynamotest.NewStore(map[string][]string{"companies": {"company_id"}})
	if err := store.Put("companies", companyItem{CompanyID: "comp-1", CompanyName: "Acme Corp", BoycottCount: 3}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestValidateName(t *testing.T) {
	store := newCompanyStore(t)
	repo := NewCompanyRepo(store, "companies", logger.NewNop())
	ctx := context.Background()

	cases := []struct {
		name      string
		companyID string
		label     string
		want      bool
	}{
		{name: "match", companyID: "comp-1", label: "Acme Corp", want: true},
		{name: "label_mismatch", companyID: "comp-1", label: "Acme", want: false},
		{name: "unknown_company", companyID: "comp-9", label: "Acme Corp", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ValidateName(ctx, tc.companyID, tc.label)
			if err != nil {
				t.Fatalf("ValidateName: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ValidateName(%s, %q) = %v, want %v", tc.companyID, tc.label, got, tc.want)
			}
		})
	}
}

func TestValidateNamePropagatesStoreError(t *testing.T) {
	store := newCompanyStore(t)
	store.FailGet["companies"] = fmt.Errorf("throttled")
	repo := NewCompanyRepo(store, "companies", logger.NewNop())

	ok, err := repo.ValidateName(context.Background(), "comp-1", "Acme Corp")
	if err == nil {
		t.Fatal("want store error surfaced to the caller")
	}
	if ok {
		t.Fatal("ok must be false alongside an error")
	}
}

func TestIncrementBoycottCount(t *testing.T) {
	store := newCompanyStore(t)
	repo := NewCompanyRepo(store, "companies", logger.NewNop())
	ctx := context.Background()

	if err := repo.IncrementBoycottCount(ctx, "comp-1"); err != nil {
		t.Fatalf("IncrementBoycottCount: %v", err)
	}
	if got := dynamotest.IntAttr(store.Get("companies", "comp-1"), "boycott_count"); got != 4 {
		t.Fatalf("boycott_count = %d, want 4", got)
	}

	// The company row is assumed pre-existing; there is no
	// default-to-zero fallback here.
	if err := repo.IncrementBoycottCount(ctx, "comp-9"); err == nil {
		t.Fatal("want error incrementing a missing company row")
	}
}
