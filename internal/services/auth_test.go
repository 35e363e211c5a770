package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/requestdata"
)

func makeToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSetContextFromToken(t *testing.T) {
	const secret = "test-secret"
	svc := NewAuthService(logger.NewNop(), secret)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := []struct {
		name    string
		token   string
		wantErr bool
		wantSub string
	}{
		{
			name:    "valid",
			token:   makeToken(t, secret, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future}),
			wantSub: "u1",
		},
		{
			name:    "empty",
			token:   "",
			wantErr: true,
		},
		{
			name:    "wrong_secret",
			token:   makeToken(t, "other-secret", jwt.RegisteredClaims{Subject: "u1", ExpiresAt: future}),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   makeToken(t, secret, jwt.RegisteredClaims{Subject: "u1", ExpiresAt: past}),
			wantErr: true,
		},
		{
			name:    "no_subject",
			token:   makeToken(t, secret, jwt.RegisteredClaims{ExpiresAt: future}),
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, err := svc.SetContextFromToken(context.Background(), tc.token)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetContextFromToken: %v", err)
			}
			rd := requestdata.GetRequestData(ctx)
			if rd == nil {
				t.Fatal("no request data on returned context")
			}
			if rd.UserID != tc.wantSub {
				t.Fatalf("UserID = %q, want %q", rd.UserID, tc.wantSub)
			}
			if rd.TokenString != tc.token {
				t.Error("token string not retained on request data")
			}
		})
	}
}

func TestRejectsNonHMACToken(t *testing.T) {
	svc := NewAuthService(logger.NewNop(), "test-secret")

	// alg=none tokens must never pass the signing-method check.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), unsigned); err == nil {
		t.Fatal("alg=none token accepted")
	}
}
