package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/boycottpro/boycottpro-backend/internal/platform/apierr"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

type stubBoycottService struct {
	result *types.AddBoycottsResult
	err    error
}

func (s *stubBoycottService) AddBoycotts(context.Context, *types.AddBoycottsForm) (*types.AddBoycottsResult, error) {
	return s.result, s.err
}

func postBoycotts(t *testing.T, svc *stubBoycottService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewBoycottHandler(logger.NewNop(), svc)
	router.POST("/users/boycotts", h.AddBoycotts)

	req := httptest.NewRequest(http.MethodPost, "/users/boycotts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"company_id":"comp-1","company_name":"Acme Corp","reasons":[{"cause_id":"c1","cause_desc":"Labor rights"}]}`

func TestAddBoycottsResponses(t *testing.T) {
	cases := []struct {
		name       string
		svc        *stubBoycottService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all_success",
			svc:        &stubBoycottService{result: &types.AddBoycottsResult{Outcome: types.OutcomeAllSuccess}},
			wantStatus: http.StatusOK,
			wantBody:   "All boycotts recorded successfully.",
		},
		{
			name:       "all_duplicate",
			svc:        &stubBoycottService{result: &types.AddBoycottsResult{Outcome: types.OutcomeAllDuplicate}},
			wantStatus: http.StatusConflict,
			wantBody:   "No new boycotts were recorded. Possible duplicates.",
		},
		{
			name: "partial_success",
			svc: &stubBoycottService{result: &types.AddBoycottsResult{
				Outcome: types.OutcomePartialSuccess,
				Errors:  []string{"Failed to record boycott for cause: c2 -> transaction canceled"},
			}},
			wantStatus: http.StatusMultiStatus,
			wantBody:   `Some boycotts recorded. Errors: [\"Failed to record boycott for cause: c2`,
		},
		{
			name:       "unauthorized",
			svc:        &stubBoycottService{err: apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no identity on request"))},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Unauthorized",
		},
		{
			name:       "bad_form",
			svc:        &stubBoycottService{err: apierr.New(http.StatusBadRequest, "invalid_form", errors.New("company_id is required"))},
			wantStatus: http.StatusBadRequest,
			wantBody:   "company_id is required",
		},
		{
			name:       "invalid_company",
			svc:        &stubBoycottService{err: apierr.New(http.StatusInternalServerError, "invalid_company", errors.New("not a valid company"))},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Unexpected server error:",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postBoycotts(t, tc.svc, validBody)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("body %q does not contain %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestAddBoycottsMalformedBody(t *testing.T) {
	svc := &stubBoycottService{result: &types.AddBoycottsResult{Outcome: types.OutcomeAllSuccess}}
	rec := postBoycotts(t, svc, `{"company_id": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid request body") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
