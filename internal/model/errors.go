// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// セキュリティ上重要なエラー（認証失敗・トークン不正）は意図的に詳細を伏せたメッセージを持つ。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, task, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRegistration = "INVALID_REGISTRATION"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeEmptyTaskText       = "EMPTY_TASK_TEXT"
	ErrCodeTaskNotFound        = "TASK_NOT_FOUND"
)

// NewInvalidRegistrationError は登録時のバリデーションエラーを生成する。
// メールアドレスとパスワードのどちらが不正かは区別しない。
func NewInvalidRegistrationError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRegistration,
		Message:  "メールアドレスまたはパスワードの形式が正しくありません。",
		Category: "validation",
		Action:   "メールアドレスの形式と、6文字以上のパスワードであることを確認してください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスで登録するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は資格情報エラーを生成する。
// メールアドレス未登録とパスワード不一致を区別しないことで、
// アカウントの存在を外部から列挙できないようにする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
// トークン欠落・改ざん・失効のいずれの場合も同一のエラーを返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidRequestBodyError はリクエストボディの解釈エラーを生成する。
func NewInvalidRequestBodyError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequestBody,
		Message:  "リクエストボディを解釈できません。",
		Category: "validation",
		Action:   "JSON形式が正しいか確認してください。",
	}
}

// NewEmptyTaskTextError はタスク本文が空の場合のエラーを生成する。
func NewEmptyTaskTextError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyTaskText,
		Message:  "タスクの本文が空です。",
		Category: "validation",
		Action:   "本文を入力してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "task",
		Action:   "タスクIDを確認してください。",
	}
}
