package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/requestdata"
	"github.com/boycottpro/boycottpro-backend/internal/services"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newProtectedRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	am := NewAuthMiddleware(log, services.NewAuthService(log, testSecret))

	var seenUserID string
	router := gin.New()
	router.Use(am.RequireAuth())
	router.GET("/whoami", func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd != nil {
			seenUserID = rd.UserID
		}
		c.String(http.StatusOK, "ok")
	})
	return router, &seenUserID
}

func TestRequireAuth(t *testing.T) {
	cases := []struct {
		name       string
		authHeader string
		query      string
		wantStatus int
		wantUserID string
	}{
		{
			name:       "bearer_header",
			authHeader: "Bearer %tok%",
			wantStatus: http.StatusOK,
			wantUserID: "u1",
		},
		{
			name:       "query_param",
			query:      "?token=%tok%",
			wantStatus: http.StatusOK,
			wantUserID: "u1",
		},
		{
			name:       "missing_token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage_token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong_secret",
			authHeader: "Bearer %othertok%",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, seenUserID := newProtectedRouter(t)
			tok := signedToken(t, testSecret, "u1")
			otherTok := signedToken(t, "different-secret", "u1")

			path := "/whoami" + expand(tc.query, tok, otherTok)
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", expand(tc.authHeader, tok, otherTok))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantUserID != "" && *seenUserID != tc.wantUserID {
				t.Fatalf("user_id on context = %q, want %q", *seenUserID, tc.wantUserID)
			}
		})
	}
}

func expand(s, tok, otherTok string) string {
	s = strings.ReplaceAll(s, "%tok%", tok)
	return strings.ReplaceAll(s, "%othertok%", otherTok)
}
