// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, job, application, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeUnauthenticated      = "UNAUTHENTICATED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken         = "INVALID_TOKEN"
	ErrCodeDuplicateEmail       = "DUPLICATE_EMAIL"
	ErrCodeDuplicateApplication = "DUPLICATE_APPLICATION"
	ErrCodeJobNotFound          = "JOB_NOT_FOUND"
	ErrCodeJobNotOpen           = "JOB_NOT_OPEN"
	ErrCodeApplicationNotFound  = "APPLICATION_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeInvalidTransition    = "INVALID_STATUS_TRANSITION"
)

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthenticatedError は未認証エラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "適切な役割のアカウントでログインしてください。",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// メールアドレス不明とパスワード不一致で同一のエラーを返し、
// アカウントの存在を推測されないようにする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidTokenError はトークン無効エラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "認証トークンが無効または期限切れです。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewDuplicateApplicationError は二重応募エラーを生成する。
func NewDuplicateApplicationError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateApplication,
		Message:  "この求人には既に応募済みです。",
		Category: "application",
		Action:   "応募一覧から応募状況を確認してください。",
	}
}

// NewJobNotFoundError は求人未検出エラーを生成する。
// 他の雇用者が所有する求人への操作も同じエラーになり、存在を漏らさない。
func NewJobNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeJobNotFound,
		Message:  "指定された求人が見つかりません。",
		Category: "job",
		Action:   "求人IDを確認してください。",
	}
}

// NewJobNotOpenError は応募不可の求人への応募エラーを生成する。
// 求人が存在しない場合と募集終了の場合の両方で返される。
func NewJobNotOpenError() *APIError {
	return &APIError{
		Code:     ErrCodeJobNotOpen,
		Message:  "この求人は応募を受け付けていません。",
		Category: "application",
		Action:   "募集中の求人から選択してください。",
	}
}

// NewApplicationNotFoundError は応募未検出エラーを生成する。
// 他人の応募への操作も同じエラーになり、存在を漏らさない。
func NewApplicationNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeApplicationNotFound,
		Message:  "指定された応募が見つかりません。",
		Category: "application",
		Action:   "応募IDを確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInvalidTransitionError は許可されていない選考状態遷移のエラーを生成する。
func NewInvalidTransitionError(from, to ApplicationStatus) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTransition,
		Message:  fmt.Sprintf("選考状態を %s から %s に変更することはできません。", from, to),
		Category: "application",
		Action:   "現在の選考状態を確認してください。",
	}
}
