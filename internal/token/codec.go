// Package token は署名付きセッショントークンの発行と検証を提供する。
//
// トークンはユーザーIDとpurposeタグを埋め込んだHMAC-SHA256署名付きJWTで、
// 署名シークレットはプロセス起動時に1回読み込まれる。
// 有効期限クレームは持たず、失効はストア側のトークン削除のみで行う。
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
)

// ErrInvalidToken は署名不一致・構造不正・purpose不一致のトークンに対して返される。
// 呼び出し側が失敗理由を区別する必要はないため、原因は1種類のエラーに畳み込む。
var ErrInvalidToken = errors.New("invalid token")

// Claims はトークンに埋め込むクレーム。
// 同一ユーザーが複数回ログインしても値が一意になるよう、発行ごとにランダムなjtiを持つ。
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
}

// Codec はセッショントークンのエンコード/デコードを行う。
type Codec struct {
	secret []byte
}

// NewCodec は指定の署名シークレットでCodecを生成する。
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode はuserIDとpurpose "auth" を埋め込んだ署名付きトークン値を生成する。
func (c *Codec) Encode(userID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.New().String(),
		},
		UserID:  userID,
		Purpose: model.TokenPurposeAuth,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode はトークンの署名を検証し、埋め込まれたuserIDを返す。
// 埋め込みフィールドは署名検証が通った後にのみ信頼する。
// パース不能・署名不一致・purposeが"auth"でないトークンはErrInvalidTokenを返す。
func (c *Codec) Decode(value string) (string, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	if claims.Purpose != model.TokenPurposeAuth || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
