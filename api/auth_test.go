package api_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)
	acme := env.newTenant("Acme", "owner@acme.test")

	t.Run("Success", func(t *testing.T) {
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(acme.token, claims, func(*jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if claims["sub"] != strconv.FormatInt(acme.user.ID, 10) {
			t.Fatalf("unexpected sub claim %v", claims["sub"])
		}
		if claims["business_id"] != float64(acme.business.ID) {
			t.Fatalf("unexpected business_id claim %v", claims["business_id"])
		}
		if claims["device"] != "test" {
			t.Fatalf("unexpected device claim %v", claims["device"])
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil || exp.Before(time.Now()) {
			t.Fatalf("expected future exp, got %v (%v)", exp, err)
		}
	})

	tests := []struct {
		name    string
		body    any
		field   string
		message string
	}{
		{
			name:    "WrongPassword",
			body:    map[string]string{"email": "owner@acme.test", "password": "nope", "device_name": "cli"},
			field:   "email",
			message: "The provided credentials are incorrect.",
		},
		{
			name:    "UnknownEmail",
			body:    map[string]string{"email": "ghost@acme.test", "password": testPassword, "device_name": "cli"},
			field:   "email",
			message: "The provided credentials are incorrect.",
		},
		{
			name:    "MissingDevice",
			body:    map[string]string{"email": "owner@acme.test", "password": testPassword},
			field:   "device_name",
			message: "The device name field is required.",
		},
		{
			name:    "InvalidEmail",
			body:    map[string]string{"email": "owner", "password": testPassword, "device_name": "cli"},
			field:   "email",
			message: "The email field must be a valid email address.",
		},
		{
			name:    "EmptyBody",
			body:    nil,
			field:   "password",
			message: "The password field is required.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.do(http.MethodPost, "/sanctum/token", "", tt.body)
			expectFieldError(t, res, tt.field, tt.message)
		})
	}

	t.Run("MalformedBody", func(t *testing.T) {
		res := env.do(http.MethodPost, "/sanctum/token", "", "{not json")
		expectStatus(t, res, http.StatusBadRequest)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	acme := env.newTenant("Acme", "owner@acme.test")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         strconv.FormatInt(acme.user.ID, 10),
		"business_id": acme.business.ID,
		"exp":         time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, token := range map[string]string{
		"Missing": "",
		"Garbage": "not.a.token",
		"Expired": expiredToken,
	} {
		t.Run(name, func(t *testing.T) {
			res := env.do(http.MethodGet, "/jobs", token, nil)
			expectStatus(t, res, http.StatusUnauthorized)
			var eb errorBody
			decodeBody(t, res, &eb)
			if eb.Message != "Unauthenticated." {
				t.Fatalf("unexpected message %q", eb.Message)
			}
		})
	}
}
