package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
)

type contextKey string

const (
	actorIDKey   contextKey = "actorID"
	actorRoleKey contextKey = "actorRole"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "некорректный токен авторизации"
)

// Claims полезная нагрузка JWT токена
type Claims struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth возвращает middleware, проверяющий Bearer JWT и кладущий
// проверенного актора (ID и роль) в контекст запроса
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			if claims.UserID <= 0 || claims.Role == "" {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), actorIDKey, claims.UserID)
			ctx = context.WithValue(ctx, actorRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActorID возвращает ID проверенного актора из контекста
func GetActorID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorIDKey).(int64)
	return id, ok
}

// GetActorRole возвращает роль проверенного актора из контекста
func GetActorRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(actorRoleKey).(string)
	return role, ok
}
