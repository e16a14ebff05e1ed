package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskman/internal/model"
)

// TestRouterIntegration_ProtectedRoute_WithMiddlewareChain は
// CORS→SecurityHeaders→Recovery→Metrics→Auth の全チェーンを通した
// 保護ルートの挙動をchi.Router上で検証する。
func TestRouterIntegration_ProtectedRoute_WithMiddlewareChain(t *testing.T) {
	resolver := &mockTokenResolver{
		resolveFn: func(ctx context.Context, tokenValue string) (*model.User, error) {
			if tokenValue == "valid-token" {
				return &model.User{ID: "user-integration", Email: "alice@example.com"}, nil
			}
			return nil, model.NewUnauthorizedError()
		},
	}
	recorder := &mockMetricsRecorder{}

	r := chi.NewRouter()
	r.Use(NewCORSMiddleware("http://localhost:3000"))
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(NewRecoveryMiddleware())
	r.Use(NewMetricsMiddleware(recorder))

	r.Group(func(r chi.Router) {
		r.Use(NewAuthMiddleware(resolver))
		r.Get("/users/me", func(w http.ResponseWriter, req *http.Request) {
			user, _ := UserFromContext(req.Context())
			w.Write([]byte(user.ID))
		})
	})

	t.Run("有効なトークンで200が返りユーザーが解決される", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set(AuthHeaderName, "valid-token")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "user-integration" {
			t.Errorf("body = %q, want %q", body, "user-integration")
		}

		// チェーン内の各ミドルウェアがヘッダーを付与していること
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
		}
		if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
		}
	})

	t.Run("トークンなしで空ボディの401が返る", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
		body, _ := io.ReadAll(resp.Body)
		if len(body) != 0 {
			t.Errorf("body = %q, want empty", body)
		}
	})

	t.Run("401が認証拒否としてメトリクスに集計される", func(t *testing.T) {
		if recorder.authRejects == 0 {
			t.Error("expected auth rejects to be recorded")
		}
	})
}
