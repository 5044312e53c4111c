// Package view はAPIレスポンス用の読み取りモデルを提供する。
//
// 結合済みの応募・求人・ユーザーデータをクライアント向けの
// 非正規化ビューに変換する。ストレージ層は参照整合性を強制しないため、
// 参照先が欠落した行はログに記録して除外する（一覧全体を失敗させない）。
package view

import "time"

// SalaryView は給与レンジのレスポンス表現。
type SalaryView struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// EmployerView は求人に埋め込む雇用者要約のレスポンス表現。
type EmployerView struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

// ApplicantView は応募に埋め込む応募者要約のレスポンス表現。
type ApplicantView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JobView は求人のレスポンス表現。
type JobView struct {
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Location     string        `json:"location"`
	Type         string        `json:"type"`
	Description  string        `json:"description"`
	Requirements string        `json:"requirements"`
	Salary       SalaryView    `json:"salary"`
	EmployerID   string        `json:"employerId"`
	Employer     *EmployerView `json:"employer,omitempty"`
	Status       string        `json:"status"`
	CreatedAt    string        `json:"createdAt"`
	UpdatedAt    string        `json:"updatedAt"`
}

// ApplicationView は応募のレスポンス表現。
// Jobは参照先の求人が存在する場合のみ、Applicantは取得経路が
// 応募者情報を結合した場合のみ埋まる。
type ApplicationView struct {
	ID          string         `json:"_id"`
	JobID       string         `json:"jobId"`
	Job         *JobView       `json:"job,omitempty"`
	ApplicantID string         `json:"applicantId"`
	Applicant   *ApplicantView `json:"applicant,omitempty"`
	Status      string         `json:"status"`
	CoverLetter string         `json:"coverLetter"`
	ResumeURL   string         `json:"resumeUrl"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// UserView はユーザーのレスポンス表現。パスワードハッシュは含めない。
type UserView struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// formatTime はタイムスタンプをRFC3339形式の文字列に変換する。
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
