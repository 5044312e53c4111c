// Package application は応募管理のドメインロジックを提供する。
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/security"
)

// Service は応募管理のサービス層。
// 応募の提出、一覧取得、選考状態の更新、取り下げのビジネスロジックを提供する。
// 二重応募の防止はストレージ層の一意制約に委ね、同時応募のレースでも
// 片方だけが成功することを保証する。
type Service struct {
	appRepo   repository.ApplicationRepository
	jobRepo   repository.JobRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	appRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		appRepo:   appRepo,
		jobRepo:   jobRepo,
		sanitizer: sanitizer,
	}
}

// Submit は求人への応募を提出する。
// 求人が存在しない場合と募集中でない場合はどちらもNewJobNotOpenErrorになる。
// 二重応募は一意制約違反として検出し、NewDuplicateApplicationErrorを返す。
// 事前の存在チェックは行わない（チェックと挿入の間のレースを防ぐため）。
func (s *Service) Submit(ctx context.Context, applicantID, jobID, coverLetter, resumeURL string) (*model.Application, error) {
	if jobID == "" {
		return nil, model.NewValidationError("求人IDは必須です")
	}
	if coverLetter == "" {
		return nil, model.NewValidationError("カバーレターは必須です")
	}
	if resumeURL == "" {
		return nil, model.NewValidationError("履歴書URLは必須です")
	}

	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil || j.Status != model.JobStatusOpen {
		return nil, model.NewJobNotOpenError()
	}

	now := time.Now()
	app := &model.Application{
		ID:          uuid.New().String(),
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      model.ApplicationStatusPending,
		CoverLetter: s.sanitizer.SanitizePlainText(coverLetter),
		ResumeURL:   resumeURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, model.NewDuplicateApplicationError()
		}
		return nil, fmt.Errorf("応募の作成に失敗しました: %w", err)
	}

	return app, nil
}

// ListForJob は指定求人への応募を応募者情報付きで新しい順に返す。
// 求人を所有していない場合と求人が存在しない場合はどちらも
// NewJobNotFoundErrorになる。
func (s *Service) ListForJob(ctx context.Context, employerID, jobID string) ([]repository.ApplicationJoinRow, error) {
	j, err := s.jobRepo.FindOwned(ctx, jobID, employerID)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil {
		return nil, model.NewJobNotFoundError()
	}

	rows, err := s.appRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return rows, nil
}

// ListMine は応募者自身の応募を求人・雇用者情報付きで新しい順に返す。
// 参照先の求人が削除済みの行も含めて返す（除外は読み取りモデル側で行う）。
func (s *Service) ListMine(ctx context.Context, applicantID string) ([]repository.ApplicationJoinRow, error) {
	rows, err := s.appRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return rows, nil
}

// ListForEmployer は雇用者が所有する全求人への応募を新しい順に返す。
// 所有求人IDの取得と応募の取得の2段階で行う。求人を1件も
// 所有していない場合は空のスライスを返す。
func (s *Service) ListForEmployer(ctx context.Context, employerID string) ([]repository.ApplicationJoinRow, error) {
	jobIDs, err := s.jobRepo.ListIDsByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}

	rows, err := s.appRepo.ListByJobIDs(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return rows, nil
}

// Get は指定IDの応募を求人・雇用者・応募者情報付きで返す。
// 応募者本人・応募先求人の所有雇用者のみ閲覧できる。
// それ以外の呼び出しはNewApplicationNotFoundErrorになる。
func (s *Service) Get(ctx context.Context, caller *model.User, id string) (*repository.ApplicationJoinRow, error) {
	row, err := s.appRepo.FindByIDJoined(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("応募の取得に失敗しました: %w", err)
	}
	if row == nil {
		return nil, model.NewApplicationNotFoundError()
	}

	if row.ApplicantID == caller.ID {
		return row, nil
	}
	if row.Job != nil && row.Job.EmployerID == caller.ID {
		return row, nil
	}

	// 存在を漏らさないため、権限なしも未検出として扱う
	return nil, model.NewApplicationNotFoundError()
}

// UpdateStatus は応募の選考状態を更新する。
// 応募が存在しない場合はNewApplicationNotFoundError、
// 応募先求人を所有していない場合はNewForbiddenErrorになる。
// 遷移の可否はtransitionTableが決める。
func (s *Service) UpdateStatus(ctx context.Context, employerID, id string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.IsValid() {
		return nil, model.NewValidationError("選考状態が不正です")
	}

	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("応募の取得に失敗しました: %w", err)
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError()
	}

	j, err := s.jobRepo.FindOwned(ctx, app.JobID, employerID)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil {
		return nil, model.NewForbiddenError()
	}

	if !canTransition(app.Status, status) {
		return nil, model.NewInvalidTransitionError(app.Status, status)
	}

	updated, err := s.appRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("選考状態の更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewApplicationNotFoundError()
	}

	app.Status = status
	app.UpdatedAt = time.Now()
	return app, nil
}

// Withdraw は応募者自身の応募を取り下げる（削除する）。
// 他人の応募・存在しない応募のどちらもNewApplicationNotFoundErrorになる。
// 選考状態に関わらず取り下げできる。
func (s *Service) Withdraw(ctx context.Context, applicantID, id string) error {
	deleted, err := s.appRepo.DeleteOwned(ctx, id, applicantID)
	if err != nil {
		return fmt.Errorf("応募の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewApplicationNotFoundError()
	}
	return nil
}
