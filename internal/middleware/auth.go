// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/taskman/internal/model"
)

// AuthHeaderName はセッショントークンを運ぶリクエスト/レスポンスヘッダー名。
// 値は生のトークン値そのもので、"Bearer "等のプレフィックスは付けない。
const AuthHeaderName = "x-auth"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// userContextKey は解決済みユーザーを格納するためのキー。
	userContextKey = contextKey("auth_user")
	// tokenContextKey は使用中のトークン値を格納するためのキー。
	// ログアウトで「使用中のセッションだけ」を失効させるために保持する。
	tokenContextKey = contextKey("auth_token")
)

// TokenResolver はトークン値から認証済みユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenResolver interface {
	Resolve(ctx context.Context, tokenValue string) (*model.User, error)
}

// NewAuthMiddleware はx-authヘッダーのトークンを検証するミドルウェアを返す。
// ヘッダーが無い、またはトークンが解決できないリクエストには空ボディの401を返す
// （匿名での通過は許さない）。成功時は解決済みユーザーとトークン値を
// リクエストコンテキストに注入する。
func NewAuthMiddleware(resolver TokenResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenValue := r.Header.Get(AuthHeaderName)
			if tokenValue == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := resolver.Resolve(r.Context(), tokenValue)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			// 外側のロギングミドルウェアへ解決済みユーザーIDを通知する
			recordLogUserID(r.Context(), user.ID)

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, tokenContextKey, tokenValue)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストから解決済みユーザーを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// TokenFromContext はリクエストコンテキストから使用中のトークン値を取得する。
func TokenFromContext(ctx context.Context) (string, error) {
	tokenValue, ok := ctx.Value(tokenContextKey).(string)
	if !ok || tokenValue == "" {
		return "", fmt.Errorf("token not found in context")
	}
	return tokenValue, nil
}

// ContextWithAuth はコンテキストにユーザーとトークン値を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAuth(ctx context.Context, user *model.User, tokenValue string) context.Context {
	ctx = context.WithValue(ctx, userContextKey, user)
	return context.WithValue(ctx, tokenContextKey, tokenValue)
}
