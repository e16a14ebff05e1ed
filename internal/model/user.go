// Package model はドメインモデルを定義する。
package model

import "time"

// TokenPurposeAuth は認証用セッショントークンのpurposeタグ。
// 将来別用途のトークンクラスを追加した場合に区別するためのマーカー。
const TokenPurposeAuth = "auth"

// User はサービス利用ユーザーを表す。
// PasswordHashは平文パスワードから導出された値であり、平文は永続化もログ出力もしない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Tokens       []AuthToken // 有効トークン一覧（発行順）
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken はユーザーが所有する有効なセッショントークンを表す。
// 明示的なログアウト、またはユーザー削除によってのみ失効する（有効期限は持たない）。
type AuthToken struct {
	Value     string
	Purpose   string
	CreatedAt time.Time
}
