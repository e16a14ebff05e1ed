package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/taskman/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
// 有効トークン一覧はauth_tokensテーブルにseq順（=発行順）で保持する。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// CreateWithToken はユーザーと初回トークンを同一トランザクションで作成する。
// usersテーブルの一意制約により、同一メールアドレスの並行登録は片方だけが成功する。
func (r *PostgresUserRepo) CreateWithToken(ctx context.Context, user *model.User, token model.AuthToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// ユーザーを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewEmailTakenError()
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	// 初回トークンを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO auth_tokens (user_id, token, purpose, created_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, token.Value, token.Purpose, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert auth token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := r.loadTokens(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	if err := r.loadTokens(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// FindByIDAndToken はトークン値がそのユーザーの有効トークン一覧に含まれる場合のみユーザーを返す。
// 失効済みトークン・削除済みユーザーのいずれもnilになる。
func (r *PostgresUserRepo) FindByIDAndToken(ctx context.Context, id, tokenValue string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at
		 FROM users u
		 JOIN auth_tokens t ON t.user_id = u.id
		 WHERE u.id = $1 AND t.token = $2 AND t.purpose = $3`,
		id, tokenValue, model.TokenPurposeAuth,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID and token: %w", err)
	}

	if err := r.loadTokens(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AppendToken はユーザーの有効トークン一覧の末尾にトークンを追加する。
// seqはBIGSERIALのため追加順＝発行順が保たれる。
func (r *PostgresUserRepo) AppendToken(ctx context.Context, userID string, token model.AuthToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (user_id, token, purpose, created_at)
		 VALUES ($1, $2, $3, $4)`,
		userID, token.Value, token.Purpose, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append token: %w", err)
	}
	return nil
}

// RemoveToken は指定トークンを一覧から削除する。
// 対象が存在しない場合も成功扱いとする（冪等）。
func (r *PostgresUserRepo) RemoveToken(ctx context.Context, userID, tokenValue string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE user_id = $1 AND token = $2`,
		userID, tokenValue,
	)
	if err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのユーザーを削除する。
// 関連するauth_tokens、tasksはCASCADE削除される。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// loadTokens はユーザーの有効トークン一覧を発行順で読み込む。
func (r *PostgresUserRepo) loadTokens(ctx context.Context, user *model.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token, purpose, created_at FROM auth_tokens WHERE user_id = $1 ORDER BY seq`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var token model.AuthToken
		if err := rows.Scan(&token.Value, &token.Purpose, &token.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan token: %w", err)
		}
		user.Tokens = append(user.Tokens, token)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tokens: %w", err)
	}

	return nil
}

// isUniqueViolation はPostgreSQLの一意制約違反（SQLSTATE 23505）かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
