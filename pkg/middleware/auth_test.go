package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golf-booking/internal/data/entity"
	"golf-booking/internal/data/memstore"
	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestAuthSession(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	revokedAt := time.Now().Add(-time.Minute)

	store.AddSession(entity.Session{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: userID, Token: "valid", ExpiresAt: time.Now().Add(time.Hour)})
	store.AddSession(entity.Session{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), Token: "expired", ExpiresAt: time.Now().Add(-time.Hour)})
	store.AddSession(entity.Session{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), Token: "revoked", ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &revokedAt})

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthSession(store.Repository().Session, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic valid", want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "expired session", header: "Bearer expired", want: http.StatusUnauthorized},
		{name: "revoked session", header: "Bearer revoked", want: http.StatusUnauthorized},
		{name: "valid session", header: "Bearer valid", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusNoContent && seen != userID {
				t.Errorf("expected caller %s in context, got %s", userID, seen)
			}
			if tt.want != http.StatusNoContent && seen != uuid.Nil {
				t.Errorf("handler should not run, saw caller %s", seen)
			}
		})
	}
}

func TestRoutePatternUnmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := routePattern(req); got != "unmatched" {
		t.Errorf("expected unmatched, got %q", got)
	}
}
