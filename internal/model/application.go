// Package model はドメインモデルを定義する。
package model

import "time"

// ApplicationStatus は応募の選考状態を表す。
type ApplicationStatus string

const (
	// ApplicationStatusPending は選考待ち。応募直後の初期状態。
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusReviewed は確認済み。
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	// ApplicationStatusAccepted は採用。
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	// ApplicationStatusRejected は不採用。
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid はサポートされている選考状態かどうかを返す。
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewed,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application は求職者の求人への応募を表す。
// (JobID, ApplicantID) の組は一意であり、同じ求人への二重応募はできない。
// JobIDは弱参照: 求人が削除されても応募は残り、読み取り側で欠落を許容する。
type Application struct {
	ID          string
	JobID       string
	ApplicantID string
	Status      ApplicationStatus
	CoverLetter string
	ResumeURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
