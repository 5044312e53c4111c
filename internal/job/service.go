// Package job は求人管理のドメインロジックを提供する。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/security"
)

// CreateInput は求人作成の入力を表す。
type CreateInput struct {
	Title        string
	Company      string
	Location     string
	Type         model.JobType
	Description  string
	Requirements string
	Salary       model.Salary
}

// Service は求人管理のサービス層。
// 一覧取得、作成、部分更新、削除のビジネスロジックを提供する。
// 更新・削除は所有者チェックと存在チェックを同時に行い、
// 他の雇用者の求人は存在しないものとして扱う。
type Service struct {
	jobRepo   repository.JobRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(jobRepo repository.JobRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		jobRepo:   jobRepo,
		sanitizer: sanitizer,
	}
}

// List はフィルタ条件に合致する求人を新しい順で返す。認証不要。
func (s *Service) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}
	return jobs, nil
}

// Get は指定IDの求人を返す。認証不要。
func (s *Service) Get(ctx context.Context, id string) (*model.Job, error) {
	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil {
		return nil, model.NewJobNotFoundError()
	}
	return j, nil
}

// ListByEmployer は指定雇用者が所有する求人を新しい順で返す。
func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error) {
	jobs, err := s.jobRepo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}
	return jobs, nil
}

// Create は新しい求人を作成する。
// 必須フィールドと給与レンジ（min < max）を検証し、状態をopenで初期化する。
// 説明文と応募要件はサニタイズしてから保存する。
func (s *Service) Create(ctx context.Context, employerID string, input CreateInput) (*model.Job, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	j := &model.Job{
		ID:           uuid.New().String(),
		Title:        s.sanitizer.SanitizePlainText(input.Title),
		Company:      s.sanitizer.SanitizePlainText(input.Company),
		Location:     s.sanitizer.SanitizePlainText(input.Location),
		Type:         input.Type,
		Description:  s.sanitizer.SanitizeRichText(input.Description),
		Requirements: s.sanitizer.SanitizeRichText(input.Requirements),
		Salary:       input.Salary,
		EmployerID:   employerID,
		Status:       model.JobStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("求人の作成に失敗しました: %w", err)
	}

	return j, nil
}

// Update は所有する求人を部分更新する。
// nilでないフィールドのみ上書きし、それ以外は既存値を維持する。
// 所有していない求人・存在しない求人のどちらもNewJobNotFoundErrorになる。
// 給与レンジは作成時のみ検証し、更新時は検証しない。
func (s *Service) Update(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error) {
	j, err := s.jobRepo.FindOwned(ctx, id, employerID)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil {
		return nil, model.NewJobNotFoundError()
	}

	if err := s.applyPatch(j, patch); err != nil {
		return nil, err
	}
	j.UpdatedAt = time.Now()

	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, fmt.Errorf("求人の更新に失敗しました: %w", err)
	}

	return j, nil
}

// Delete は所有する求人を削除する。
// 所有していない求人・存在しない求人のどちらもNewJobNotFoundErrorになる。
// 削除しても既存の応募は残る（弱参照設計）。
func (s *Service) Delete(ctx context.Context, employerID, id string) error {
	deleted, err := s.jobRepo.DeleteOwned(ctx, id, employerID)
	if err != nil {
		return fmt.Errorf("求人の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewJobNotFoundError()
	}
	return nil
}

// validateCreateInput は求人作成の入力を検証する。
func validateCreateInput(input CreateInput) error {
	switch {
	case input.Title == "":
		return model.NewValidationError("タイトルは必須です")
	case input.Company == "":
		return model.NewValidationError("会社名は必須です")
	case input.Location == "":
		return model.NewValidationError("勤務地は必須です")
	case input.Description == "":
		return model.NewValidationError("説明は必須です")
	case input.Requirements == "":
		return model.NewValidationError("応募要件は必須です")
	}

	if !input.Type.IsValid() {
		return model.NewValidationError("雇用形態が不正です")
	}

	if input.Salary.Min <= 0 || input.Salary.Max <= 0 || input.Salary.Currency == "" {
		return model.NewValidationError("給与のmin・max・通貨はすべて必須です")
	}
	if input.Salary.Min >= input.Salary.Max {
		return model.NewValidationError("給与の下限は上限より小さい必要があります")
	}

	return nil
}

// applyPatch は部分更新を求人に適用する。指定されたフィールドのみ検証する。
func (s *Service) applyPatch(j *model.Job, patch model.JobPatch) error {
	if patch.Title != nil {
		if *patch.Title == "" {
			return model.NewValidationError("タイトルを空にすることはできません")
		}
		j.Title = s.sanitizer.SanitizePlainText(*patch.Title)
	}
	if patch.Company != nil {
		if *patch.Company == "" {
			return model.NewValidationError("会社名を空にすることはできません")
		}
		j.Company = s.sanitizer.SanitizePlainText(*patch.Company)
	}
	if patch.Location != nil {
		if *patch.Location == "" {
			return model.NewValidationError("勤務地を空にすることはできません")
		}
		j.Location = s.sanitizer.SanitizePlainText(*patch.Location)
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return model.NewValidationError("雇用形態が不正です")
		}
		j.Type = *patch.Type
	}
	if patch.Description != nil {
		j.Description = s.sanitizer.SanitizeRichText(*patch.Description)
	}
	if patch.Requirements != nil {
		j.Requirements = s.sanitizer.SanitizeRichText(*patch.Requirements)
	}
	if patch.Salary != nil {
		j.Salary = *patch.Salary
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return model.NewValidationError("求人の状態が不正です")
		}
		j.Status = *patch.Status
	}
	return nil
}
