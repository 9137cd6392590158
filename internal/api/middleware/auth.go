package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	roleStaff = "staff"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	actorKey
)

// Auth проверяет заголовок X-User-ID и кладет пользователя в контекст.
// X-User-Role: staff - действие сотрудника, иначе - клиента.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-User-ID")
			return
		}

		actor := domain.SourceClient
		if r.Header.Get(headerUserRole) == roleStaff {
			actor = domain.SourceStaff
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает пользователя запроса
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Actor возвращает, от чьего имени выполняется действие; по умолчанию клиент
func Actor(ctx context.Context) domain.ReservationSource {
	if a, ok := ctx.Value(actorKey).(domain.ReservationSource); ok {
		return a
	}
	return domain.SourceClient
}
