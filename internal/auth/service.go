// Package auth はユーザー登録、ログイン、トークン解決のドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
	"github.com/hitoshi/taskman/internal/security"
)

// TokenCodec はセッショントークンの発行・検証に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenCodec interface {
	// Encode はuserIDを埋め込んだ署名付きトークン値を生成する。
	Encode(userID string) (string, error)
	// Decode はトークンを検証し、埋め込まれたuserIDを返す。
	Decode(value string) (string, error)
}

// Service は認証・認可のサービス層。
// 可変状態はすべてUserRepositoryに保持し、Service自体はリクエスト間で状態を持たない。
// ストア層・ハッシュ層のエラーは境界に到達する前に必ずAPIエラー種別へ解釈する。
type Service struct {
	userRepo repository.UserRepository
	codec    TokenCodec
	hasher   security.Hasher
	validate *validator.Validate
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, codec TokenCodec, hasher security.Hasher) *Service {
	return &Service{
		userRepo: userRepo,
		codec:    codec,
		hasher:   hasher,
		validate: validator.New(),
	}
}

// registerInput は登録時のバリデーション対象。
// パスワードの最小文字数は6文字。
type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Register は新規ユーザーを作成し、初回セッショントークンを発行する。
// ユーザー作成とトークン保存は同一トランザクションで行われ、
// 途中失敗時にトークンなしユーザーが外部から観測されることはない。
// メールアドレス重複はEMAIL_TAKEN、形式不正はINVALID_REGISTRATIONを返す。
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	if err := s.validate.Struct(registerInput{Email: email, Password: password}); err != nil {
		return nil, "", model.NewInvalidRegistrationError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tokenValue, err := s.codec.Encode(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode token: %w", err)
	}
	authToken := model.AuthToken{
		Value:     tokenValue,
		Purpose:   model.TokenPurposeAuth,
		CreatedAt: now,
	}

	if err := s.userRepo.CreateWithToken(ctx, user, authToken); err != nil {
		// EMAIL_TAKENを含むAPIエラーはそのまま伝播させる（%wでerrors.As可能なまま）
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}
	user.Tokens = []model.AuthToken{authToken}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokenValue, nil
}

// Login は資格情報を検証し、新しいセッショントークンを発行して永続化する。
// 未知のメールアドレスとパスワード不一致は同一のINVALID_CREDENTIALSとして返し、
// アカウントの存在を外部から判別できないようにする。
// 同一ユーザーの有効トークンは複数共存できる（端末ごとのセッション）。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	tokenValue, err := s.codec.Encode(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode token: %w", err)
	}
	authToken := model.AuthToken{
		Value:     tokenValue,
		Purpose:   model.TokenPurposeAuth,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.AppendToken(ctx, user.ID, authToken); err != nil {
		return nil, "", fmt.Errorf("failed to append token: %w", err)
	}
	user.Tokens = append(user.Tokens, authToken)

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return user, tokenValue, nil
}

// Resolve はトークン値から認証済みユーザーを解決する。
// 署名不正・purpose不一致・失効済み（一覧から削除済み）・ユーザー削除済みの
// いずれの場合も同一のUNAUTHORIZEDを返す。ストア障害も外部にはUNAUTHORIZEDとして扱い、
// 詳細はログにのみ残す。
func (s *Service) Resolve(ctx context.Context, tokenValue string) (*model.User, error) {
	userID, err := s.codec.Decode(tokenValue)
	if err != nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByIDAndToken(ctx, userID, tokenValue)
	if err != nil {
		slog.Error("failed to find user by token",
			slog.String("error", err.Error()),
		)
		return nil, model.NewUnauthorizedError()
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// Logout は指定トークンのみを失効させる。他端末のセッションには影響しない。
// 既に失効済みのトークンを指定してもエラーにならない（冪等）。
func (s *Service) Logout(ctx context.Context, userID, tokenValue string) error {
	if err := s.userRepo.RemoveToken(ctx, userID, tokenValue); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	slog.Info("user logged out", slog.String("user_id", userID))
	return nil
}
