// Package security は認証基盤のセキュリティプリミティブを提供する。
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultBcryptCost はbcryptのデフォルトコストパラメータ。
const defaultBcryptCost = 10

// Hasher はパスワードの一方向ハッシュ化と照合のインターフェース。
type Hasher interface {
	// Hash は平文パスワードのソルト付きハッシュを返す。
	Hash(plaintext string) (string, error)
	// Verify は平文とハッシュを照合する。
	// ハッシュが不正な形式の場合もfalseを返す（fail closed）。
	Verify(plaintext, hash string) bool
}

// BcryptHasher はbcryptによるHasher実装。
// ソルトは呼び出しごとにランダムに生成され、出力ハッシュに埋め込まれる。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costがbcryptの有効範囲外の場合はデフォルト値を使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードのbcryptハッシュを返す。
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Verify は平文とbcryptハッシュを照合する。
// 比較はbcrypt内部で秘密値に対して定数時間で行われる。
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// compile-time interface check
var _ Hasher = (*BcryptHasher)(nil)
