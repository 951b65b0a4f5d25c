package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		UserID: 3,
		Role:   "patient",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// authedRequest выполняет запрос через middleware и возвращает код ответа
// плюс актора, попавшего в контекст
func authedRequest(t *testing.T, authHeader string) (int, int64, string) {
	t.Helper()

	var gotID int64
	var gotRole string
	var reached bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotID, _ = GetActorID(r.Context())
		gotRole, _ = GetActorRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments/1", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	Auth(testSecret)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		assert.False(t, reached, "handler must not run on auth failure")
	}
	return rec.Code, gotID, gotRole
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())

	code, actorID, actorRole := authedRequest(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), actorID)
	assert.Equal(t, "patient", actorRole)
}

func TestAuth_Rejects(t *testing.T) {
	wrongSecret := signToken(t, "another-secret", validClaims())

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	expiredToken := signToken(t, testSecret, expired)

	noUser := validClaims()
	noUser.UserID = 0
	noUserToken := signToken(t, testSecret, noUser)

	noRole := validClaims()
	noRole.Role = ""
	noRoleToken := signToken(t, testSecret, noRole)

	tests := []struct {
		name   string
		header string
	}{
		{"без заголовка", ""},
		{"не Bearer", "Basic dXNlcjpwYXNz"},
		{"пустой токен", "Bearer "},
		{"мусор вместо токена", "Bearer not-a-jwt"},
		{"неверная подпись", "Bearer " + wrongSecret},
		{"истёкший токен", "Bearer " + expiredToken},
		{"нет userId в claims", "Bearer " + noUserToken},
		{"нет роли в claims", "Bearer " + noRoleToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := authedRequest(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, code)
		})
	}
}

func TestAuth_RejectsUnsignedToken(t *testing.T) {
	// alg=none не проходит проверку метода подписи
	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	code, _, _ := authedRequest(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, code)
}
