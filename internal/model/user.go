// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。登録後の変更は不可。
type Role string

const (
	// RoleEmployer は求人を掲載する雇用者。
	RoleEmployer Role = "employer"
	// RoleJobSeeker は求人に応募する求職者。
	RoleJobSeeker Role = "jobseeker"
)

// IsValid はサポートされている役割かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleEmployer || r == RoleJobSeeker
}

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを保持し、平文は一切保存しない。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Company      string // 雇用者のみ。求職者では空。
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployerSummary は結合ビューに埋め込む雇用者の要約情報。
type EmployerSummary struct {
	ID      string
	Name    string
	Company string
}

// ApplicantSummary は結合ビューに埋め込む応募者の要約情報。
type ApplicantSummary struct {
	ID    string
	Name  string
	Email string
}
