package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otocare/booking-portal/internal/core/domain"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return signed
}

func TestDecodeFullClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	credential := mint(t, jwt.MapClaims{
		"sub":       "u-1",
		"user_id":   "42",
		"username":  "hoa",
		"email":     "hoa@example.com",
		"full_name": "Hoa Tran",
		"role":      "staff",
		"exp":       exp,
	})

	claims, err := Decode(credential)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.UserID != "42" || claims.Username != "hoa" || claims.Role != "staff" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt != exp {
		t.Fatalf("exp = %d, want %d", claims.ExpiresAt, exp)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, credential := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := Decode(credential); err == nil {
			t.Fatalf("expected decode error for %q", credential)
		} else {
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
		}
	}
}

func TestExpiredCredentialStillDecodes(t *testing.T) {
	credential := mint(t, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := Decode(credential)
	if err != nil {
		t.Fatalf("expiry must not be a decode error: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Fatal("credential should report expired")
	}
}

func TestMissingExpCountsAsExpired(t *testing.T) {
	claims, err := Decode(mint(t, jwt.MapClaims{"sub": "u-1"}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Fatal("a credential without exp must count as expired")
	}
}

func TestIdentityFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		claims Claims
		want   domain.Identity
	}{
		{
			name: "complete claims",
			claims: Claims{
				Subject:  "s-1",
				UserID:   "42",
				Username: "hoa",
				Email:    "hoa@example.com",
				FullName: "Hoa Tran",
				Role:     "staff",
			},
			want: domain.Identity{
				ID:       "42",
				Username: "hoa",
				Email:    "hoa@example.com",
				Role:     domain.RoleStaff,
				FullName: "Hoa Tran",
			},
		},
		{
			name:   "id falls back to sub",
			claims: Claims{Subject: "s-1", Username: "hoa", Role: "customer"},
			want: domain.Identity{
				ID:       "s-1",
				Username: "hoa",
				Role:     domain.RoleCustomer,
				FullName: "hoa",
			},
		},
		{
			name:   "empty claims",
			claims: Claims{},
			want: domain.Identity{
				Username: "user",
				Role:     domain.RoleCustomer,
				FullName: "user",
			},
		},
		{
			name:   "unknown role defaults to customer",
			claims: Claims{UserID: "7", Username: "x", Role: "superuser"},
			want: domain.Identity{
				ID:       "7",
				Username: "x",
				Role:     domain.RoleCustomer,
				FullName: "x",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.claims.Identity(); got != tc.want {
				t.Fatalf("identity = %+v, want %+v", got, tc.want)
			}
		})
	}
}
