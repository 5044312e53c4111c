// Package model はドメインモデルを定義する。
package model

import "time"

// JobType は雇用形態を表す。
type JobType string

const (
	// JobTypeFullTime は正社員。
	JobTypeFullTime JobType = "full-time"
	// JobTypePartTime はパートタイム。
	JobTypePartTime JobType = "part-time"
	// JobTypeContract は契約社員。
	JobTypeContract JobType = "contract"
	// JobTypeInternship はインターンシップ。
	JobTypeInternship JobType = "internship"
)

// IsValid はサポートされている雇用形態かどうかを返す。
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// JobStatus は求人の公開状態を表す。openの求人のみ応募を受け付ける。
type JobStatus string

const (
	// JobStatusOpen は応募受付中。
	JobStatusOpen JobStatus = "open"
	// JobStatusClosed は募集終了。
	JobStatusClosed JobStatus = "closed"
	// JobStatusDraft は下書き。
	JobStatusDraft JobStatus = "draft"
)

// IsValid はサポートされている公開状態かどうかを返す。
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// Salary は給与レンジを表す。
// Min < Max は作成時のみ検証される（更新時は検証しない）。
type Salary struct {
	Min      int
	Max      int
	Currency string
}

// Job は求人情報を表す。EmployerIDの雇用者が排他的に所有する。
type Job struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Type         JobType
	Description  string
	Requirements string
	Salary       Salary
	EmployerID   string
	Status       JobStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Employer は雇用者の要約情報。結合付きの読み取り経路でのみ埋まる。
	Employer *EmployerSummary
}

// JobFilter は求人一覧のフィルタ条件を表す。
// ゼロ値のフィールドは条件として適用しない。
type JobFilter struct {
	Search   string // title/company/descriptionに対する部分一致
	Location string // 大文字小文字を区別しない部分一致
	Status   string
}

// JobPatch は求人の部分更新を表す。nilのフィールドは既存値を維持する。
type JobPatch struct {
	Title        *string
	Company      *string
	Location     *string
	Type         *JobType
	Description  *string
	Requirements *string
	Salary       *Salary
	Status       *JobStatus
}
