// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateApplication は(job_id, applicant_id)の一意制約違反を表す。
// 挿入と同時にストレージ層で評価されるため、同時応募のレースでも
// 片方の挿入だけがこのエラーになる。
var ErrDuplicateApplication = errors.New("application already exists for this job and applicant")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// FindByID は指定IDの求人を雇用者要約付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// FindOwned は指定IDかつ指定雇用者が所有する求人を取得する。
	// 存在しない場合と所有者が異なる場合のどちらもnilを返し、区別しない。
	FindOwned(ctx context.Context, id, employerID string) (*model.Job, error)

	// List はフィルタ条件に合致する求人を雇用者要約付きで新しい順に返す。
	List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)

	// ListByEmployer は指定雇用者の求人を新しい順で返す。
	ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error)

	// ListIDsByEmployer は指定雇用者が所有する求人IDの一覧を返す。
	ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error)

	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// Update は求人を上書き更新する。
	Update(ctx context.Context, job *model.Job) error

	// DeleteOwned は指定IDかつ指定雇用者が所有する求人を削除する。
	// 削除した場合はtrueを返す。応募はカスケード削除しない（弱参照設計）。
	DeleteOwned(ctx context.Context, id, employerID string) (bool, error)
}

// ApplicationJoinRow は応募と求人・雇用者・応募者情報を結合した行。
// LEFT JOINで取得するため、参照先の求人が削除済みの場合はJobがnilになる。
// 取得経路によってEmployer/Applicantが埋まらないことがある。
type ApplicationJoinRow struct {
	model.Application
	Job       *model.Job
	Employer  *model.EmployerSummary
	Applicant *model.ApplicantSummary
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募を作成する。
	// 同一(job_id, applicant_id)の応募が既に存在する場合はErrDuplicateApplicationを返す。
	Create(ctx context.Context, app *model.Application) error

	// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Application, error)

	// FindByIDJoined は指定IDの応募を求人・雇用者・応募者情報付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDJoined(ctx context.Context, id string) (*ApplicationJoinRow, error)

	// ListByJob は指定求人への応募を応募者情報付きで新しい順に返す。
	ListByJob(ctx context.Context, jobID string) ([]ApplicationJoinRow, error)

	// ListByApplicant は指定応募者の応募を求人・雇用者情報付きで新しい順に返す。
	// 求人が削除済みの行も返す（Jobがnil）。除外は呼び出し側で行う。
	ListByApplicant(ctx context.Context, applicantID string) ([]ApplicationJoinRow, error)

	// ListByJobIDs は指定求人ID群への応募を求人・雇用者・応募者情報付きで
	// 新しい順に返す。
	ListByJobIDs(ctx context.Context, jobIDs []string) ([]ApplicationJoinRow, error)

	// UpdateStatus は応募の選考状態を更新する。更新した場合はtrueを返す。
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (bool, error)

	// DeleteOwned は指定IDかつ指定応募者が所有する応募を削除する。
	// 削除した場合はtrueを返す。
	DeleteOwned(ctx context.Context, id, applicantID string) (bool, error)
}
