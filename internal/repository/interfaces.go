// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskman/internal/model"
)

// UserRepository はユーザーレコードとその有効トークン一覧の永続化インターフェース。
// トークン一覧への追加・削除はストア側で同一ユーザーへの並行変更に対して原子的に行われる。
type UserRepository interface {
	// CreateWithToken はユーザーと初回トークンを同一トランザクションで作成する。
	// 途中で失敗した場合、トークンを持たないユーザーが残ることはない。
	// メールアドレスが重複する場合はEMAIL_TAKENエラーを返す（並行登録でも成功は1件のみ）。
	CreateWithToken(ctx context.Context, user *model.User, token model.AuthToken) error

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByIDAndToken はトークン値がそのユーザーの有効トークン一覧に含まれる場合のみ
	// ユーザーを返す。単なるID検索ではなく認可チェックを兼ねる。
	// トークンが失効済み、またはユーザーが削除済みの場合はnilを返す。
	FindByIDAndToken(ctx context.Context, id, tokenValue string) (*model.User, error)

	// AppendToken はユーザーの有効トークン一覧の末尾（発行順）にトークンを追加する。
	AppendToken(ctx context.Context, userID string, token model.AuthToken) error

	// RemoveToken は指定トークンを一覧から削除する。
	// 存在しないトークンの削除はエラーにならない（冪等）。
	RemoveToken(ctx context.Context, userID, tokenValue string) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有するトークンとタスクはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// TaskRepository はタスクレコードの永続化インターフェース。
// 全操作は所有ユーザーのIDでフィルタされる（データ分離）。
type TaskRepository interface {
	// Create は新規タスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// ListByUserID はユーザーのタスク一覧を作成日時順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)

	// FindByIDAndUser は指定IDかつ指定ユーザー所有のタスクを取得する。
	// 見つからない場合（他ユーザー所有を含む）はnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Task, error)

	// Update は既存タスクを上書き更新する。履歴は保持しない。
	Update(ctx context.Context, task *model.Task) error

	// DeleteByIDAndUser は指定IDかつ指定ユーザー所有のタスクを削除し、削除したタスクを返す。
	// 見つからない場合はnilを返す。
	DeleteByIDAndUser(ctx context.Context, id, userID string) (*model.Task, error)
}
