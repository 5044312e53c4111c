package job

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/security"
)

// mockJobRepo はJobRepositoryのモック実装。
type mockJobRepo struct {
	findByIDFn          func(ctx context.Context, id string) (*model.Job, error)
	findOwnedFn         func(ctx context.Context, id, employerID string) (*model.Job, error)
	listFn              func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
	listByEmployerFn    func(ctx context.Context, employerID string) ([]*model.Job, error)
	listIDsByEmployerFn func(ctx context.Context, employerID string) ([]string, error)
	createFn            func(ctx context.Context, job *model.Job) error
	updateFn            func(ctx context.Context, job *model.Job) error
	deleteOwnedFn       func(ctx context.Context, id, employerID string) (bool, error)
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockJobRepo) FindOwned(ctx context.Context, id, employerID string) (*model.Job, error) {
	return m.findOwnedFn(ctx, id, employerID)
}

func (m *mockJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	return m.listFn(ctx, filter)
}

func (m *mockJobRepo) ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error) {
	return m.listByEmployerFn(ctx, employerID)
}

func (m *mockJobRepo) ListIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	return m.listIDsByEmployerFn(ctx, employerID)
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	return m.createFn(ctx, job)
}

func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error {
	return m.updateFn(ctx, job)
}

func (m *mockJobRepo) DeleteOwned(ctx context.Context, id, employerID string) (bool, error) {
	return m.deleteOwnedFn(ctx, id, employerID)
}

var _ repository.JobRepository = (*mockJobRepo)(nil)

func newTestService(repo *mockJobRepo) *Service {
	return NewService(repo, security.NewContentSanitizer())
}

func validCreateInput() CreateInput {
	return CreateInput{
		Title:        "バックエンドエンジニア",
		Company:      "株式会社テスト",
		Location:     "東京",
		Type:         model.JobTypeFullTime,
		Description:  "Goでジョブボードを開発します。",
		Requirements: "Go経験3年以上",
		Salary:       model.Salary{Min: 5000000, Max: 9000000, Currency: "JPY"},
	}
}

// 求人作成が成功し、サーバー側でID・状態・タイムスタンプが設定されることを検証
func TestService_Create_Success(t *testing.T) {
	var created *model.Job
	repo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error {
			created = job
			return nil
		},
	}
	svc := newTestService(repo)

	got, err := svc.Create(context.Background(), "employer-1", validCreateInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if got.ID == "" {
		t.Error("ID should be assigned")
	}
	if got.EmployerID != "employer-1" {
		t.Errorf("EmployerID = %q, want employer-1", got.EmployerID)
	}
	if got.Status != model.JobStatusOpen {
		t.Errorf("Status = %q, want %q", got.Status, model.JobStatusOpen)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if created == nil {
		t.Fatal("repository Create was not called")
	}
}

// 作成時の検証エラーを検証
func TestService_Create_Validation(t *testing.T) {
	repo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error {
			t.Error("Create should not be called on validation failure")
			return nil
		},
	}
	svc := newTestService(repo)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"タイトル欠落", func(in *CreateInput) { in.Title = "" }},
		{"会社名欠落", func(in *CreateInput) { in.Company = "" }},
		{"勤務地欠落", func(in *CreateInput) { in.Location = "" }},
		{"説明欠落", func(in *CreateInput) { in.Description = "" }},
		{"応募要件欠落", func(in *CreateInput) { in.Requirements = "" }},
		{"雇用形態が不正", func(in *CreateInput) { in.Type = "freelance" }},
		{"給与min欠落", func(in *CreateInput) { in.Salary.Min = 0 }},
		{"給与max欠落", func(in *CreateInput) { in.Salary.Max = 0 }},
		{"通貨欠落", func(in *CreateInput) { in.Salary.Currency = "" }},
		{"minがmax以上", func(in *CreateInput) { in.Salary.Min = 9000000; in.Salary.Max = 5000000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), "employer-1", input)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *model.APIError", err)
			}
			if apiErr.Code != model.ErrCodeValidation {
				t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidation)
			}
		})
	}
}

// 作成時に説明文からscriptタグが除去されることを検証
func TestService_Create_SanitizesContent(t *testing.T) {
	repo := &mockJobRepo{
		createFn: func(ctx context.Context, job *model.Job) error { return nil },
	}
	svc := newTestService(repo)

	input := validCreateInput()
	input.Description = `<p>開発業務</p><script>alert('xss')</script>`
	input.Title = `エンジニア<script>alert(1)</script>`

	got, err := svc.Create(context.Background(), "employer-1", input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if strings.Contains(got.Description, "<script") {
		t.Errorf("Description contains script tag: %q", got.Description)
	}
	if strings.Contains(got.Title, "<script") {
		t.Errorf("Title contains script tag: %q", got.Title)
	}
	if !strings.Contains(got.Description, "開発業務") {
		t.Errorf("Description lost content: %q", got.Description)
	}
}

// 部分更新で指定フィールドのみ上書きされることを検証
func TestService_Update_PartialFields(t *testing.T) {
	existing := &model.Job{
		ID:           "job-1",
		Title:        "バックエンドエンジニア",
		Company:      "株式会社テスト",
		Location:     "東京",
		Type:         model.JobTypeFullTime,
		Description:  "説明",
		Requirements: "要件",
		Salary:       model.Salary{Min: 5000000, Max: 9000000, Currency: "JPY"},
		EmployerID:   "employer-1",
		Status:       model.JobStatusOpen,
	}

	var updated *model.Job
	repo := &mockJobRepo{
		findOwnedFn: func(ctx context.Context, id, employerID string) (*model.Job, error) {
			if id != "job-1" || employerID != "employer-1" {
				t.Errorf("FindOwned(%q, %q), want (job-1, employer-1)", id, employerID)
			}
			return existing, nil
		},
		updateFn: func(ctx context.Context, job *model.Job) error {
			updated = job
			return nil
		},
	}
	svc := newTestService(repo)

	newTitle := "シニアバックエンドエンジニア"
	newStatus := model.JobStatusClosed
	got, err := svc.Update(context.Background(), "employer-1", "job-1", model.JobPatch{
		Title:  &newTitle,
		Status: &newStatus,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if got.Title != newTitle {
		t.Errorf("Title = %q, want %q", got.Title, newTitle)
	}
	if got.Status != model.JobStatusClosed {
		t.Errorf("Status = %q, want closed", got.Status)
	}
	// 未指定フィールドは維持される
	if got.Company != "株式会社テスト" {
		t.Errorf("Company = %q, should be unchanged", got.Company)
	}
	if got.Location != "東京" {
		t.Errorf("Location = %q, should be unchanged", got.Location)
	}
	if updated == nil {
		t.Fatal("repository Update was not called")
	}
}

// 更新時は給与レンジを再検証しないことを検証
func TestService_Update_NoSalaryRangeCheck(t *testing.T) {
	existing := &model.Job{
		ID:         "job-1",
		Title:      "エンジニア",
		EmployerID: "employer-1",
		Salary:     model.Salary{Min: 5000000, Max: 9000000, Currency: "JPY"},
	}
	repo := &mockJobRepo{
		findOwnedFn: func(ctx context.Context, id, employerID string) (*model.Job, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, job *model.Job) error { return nil },
	}
	svc := newTestService(repo)

	// minがmaxを超える給与でも更新は通る
	inverted := model.Salary{Min: 9000000, Max: 5000000, Currency: "JPY"}
	got, err := svc.Update(context.Background(), "employer-1", "job-1", model.JobPatch{
		Salary: &inverted,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Salary != inverted {
		t.Errorf("Salary = %+v, want %+v", got.Salary, inverted)
	}
}

// 他の雇用者の求人・存在しない求人がともにNotFoundになることを検証
func TestService_Update_OwnershipAsAbsence(t *testing.T) {
	repo := &mockJobRepo{
		findOwnedFn: func(ctx context.Context, id, employerID string) (*model.Job, error) {
			return nil, nil
		},
		updateFn: func(ctx context.Context, job *model.Job) error {
			t.Error("Update should not be called")
			return nil
		},
	}
	svc := newTestService(repo)

	newTitle := "タイトル"
	_, err := svc.Update(context.Background(), "employer-2", "job-1", model.JobPatch{Title: &newTitle})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeJobNotFound)
	}
}

// 削除の成功と所有者不一致時のNotFoundを検証
func TestService_Delete(t *testing.T) {
	tests := []struct {
		name     string
		deleted  bool
		wantCode string
	}{
		{"所有する求人の削除", true, ""},
		{"所有しない求人はNotFound", false, model.ErrCodeJobNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockJobRepo{
				deleteOwnedFn: func(ctx context.Context, id, employerID string) (bool, error) {
					return tt.deleted, nil
				},
			}
			svc := newTestService(repo)

			err := svc.Delete(context.Background(), "employer-1", "job-1")

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Delete returned error: %v", err)
				}
				return
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *model.APIError", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

// Getの成功と未検出を検証
func TestService_Get(t *testing.T) {
	repo := &mockJobRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Job, error) {
			if id == "job-1" {
				return &model.Job{ID: "job-1", Title: "エンジニア"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	got, err := svc.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID != "job-1" {
		t.Errorf("ID = %q, want job-1", got.ID)
	}

	_, err = svc.Get(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeJobNotFound)
	}
}

// フィルタ条件がそのままリポジトリに渡されることを検証
func TestService_List_PassesFilter(t *testing.T) {
	var gotFilter model.JobFilter
	repo := &mockJobRepo{
		listFn: func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
			gotFilter = filter
			return []*model.Job{}, nil
		},
	}
	svc := newTestService(repo)

	filter := model.JobFilter{Search: "Go", Location: "東京", Status: "open"}
	if _, err := svc.List(context.Background(), filter); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gotFilter != filter {
		t.Errorf("filter = %+v, want %+v", gotFilter, filter)
	}
}
