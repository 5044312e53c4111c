package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/job"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// mockJobService はJobServiceInterfaceのモック実装。
type mockJobService struct {
	listFn           func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
	getFn            func(ctx context.Context, id string) (*model.Job, error)
	listByEmployerFn func(ctx context.Context, employerID string) ([]*model.Job, error)
	createFn         func(ctx context.Context, employerID string, input job.CreateInput) (*model.Job, error)
	updateFn         func(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error)
	deleteFn         func(ctx context.Context, employerID, id string) error
}

func (m *mockJobService) List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
	return m.listFn(ctx, filter)
}

func (m *mockJobService) Get(ctx context.Context, id string) (*model.Job, error) {
	return m.getFn(ctx, id)
}

func (m *mockJobService) ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error) {
	return m.listByEmployerFn(ctx, employerID)
}

func (m *mockJobService) Create(ctx context.Context, employerID string, input job.CreateInput) (*model.Job, error) {
	return m.createFn(ctx, employerID, input)
}

func (m *mockJobService) Update(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error) {
	return m.updateFn(ctx, employerID, id, patch)
}

func (m *mockJobService) Delete(ctx context.Context, employerID, id string) error {
	return m.deleteFn(ctx, employerID, id)
}

// jobTestRouter はURLパラメータ解決のためにchiルーターへハンドラーをマウントする。
func jobTestRouter(h *JobHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/jobs", h.List)
	r.Get("/api/jobs/{id}", h.Get)
	r.Post("/api/jobs", h.Create)
	r.Put("/api/jobs/{id}", h.Update)
	r.Delete("/api/jobs/{id}", h.Delete)
	return r
}

func employerRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), &model.User{
		ID:   "employer-1",
		Role: model.RoleEmployer,
	}))
}

// クエリパラメータがフィルタに変換されることを検証
func TestJobHandler_List_Filters(t *testing.T) {
	var gotFilter model.JobFilter
	svc := &mockJobService{
		listFn: func(ctx context.Context, filter model.JobFilter) ([]*model.Job, error) {
			gotFilter = filter
			return []*model.Job{{ID: "job-1", Title: "エンジニア"}}, nil
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?search=Go&location=Tokyo&status=open", nil)
	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := model.JobFilter{Search: "Go", Location: "Tokyo", Status: "open"}
	if gotFilter != want {
		t.Errorf("filter = %+v, want %+v", gotFilter, want)
	}

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Error("success = false, want true")
	}
	jobs, ok := env.Data.([]any)
	if !ok || len(jobs) != 1 {
		t.Errorf("data = %v, want 1 job", env.Data)
	}
}

// 公開求人詳細に雇用者要約が含まれることを検証
func TestJobHandler_Get_IncludesEmployerSummary(t *testing.T) {
	svc := &mockJobService{
		getFn: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{
				ID:     id,
				Title:  "エンジニア",
				Status: model.JobStatusOpen,
				Employer: &model.EmployerSummary{
					ID:      "employer-1",
					Name:    "採用担当",
					Company: "株式会社テスト",
				},
			}, nil
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	emp, ok := data["employer"].(map[string]any)
	if !ok {
		t.Fatalf("employer = %T, want object: %s", data["employer"], w.Body.String())
	}
	if emp["name"] != "採用担当" || emp["company"] != "株式会社テスト" {
		t.Errorf("employer = %+v", emp)
	}
}

// 存在しない求人で404が返ることを検証
func TestJobHandler_Get_NotFound(t *testing.T) {
	svc := &mockJobService{
		getFn: func(ctx context.Context, id string) (*model.Job, error) {
			return nil, model.NewJobNotFoundError()
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil)
	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	env := decodeEnvelope(t, w)
	if env.Error != model.ErrCodeJobNotFound {
		t.Errorf("error = %q, want %q", env.Error, model.ErrCodeJobNotFound)
	}
}

// 求人作成で201とメトリクス記録を検証
func TestJobHandler_Create_Success(t *testing.T) {
	var gotInput job.CreateInput
	svc := &mockJobService{
		createFn: func(ctx context.Context, employerID string, input job.CreateInput) (*model.Job, error) {
			if employerID != "employer-1" {
				t.Errorf("employerID = %q, want employer-1", employerID)
			}
			gotInput = input
			return &model.Job{ID: "job-1", Title: input.Title, Status: model.JobStatusOpen}, nil
		},
	}
	collector := newMockCollector()
	h := NewJobHandler(svc, collector)

	body := `{"title":"エンジニア","company":"株式会社テスト","location":"東京","type":"full-time",` +
		`"description":"説明","requirements":"要件","salary":{"min":5000000,"max":9000000,"currency":"JPY"}}`
	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, employerRequest(http.MethodPost, "/api/jobs", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if gotInput.Salary.Min != 5000000 || gotInput.Salary.Currency != "JPY" {
		t.Errorf("salary = %+v", gotInput.Salary)
	}
	if collector.jobsCreated != 1 {
		t.Errorf("jobsCreated = %d, want 1", collector.jobsCreated)
	}
}

// 検証エラーで400が返り、メトリクスが記録されないことを検証
func TestJobHandler_Create_ValidationError(t *testing.T) {
	svc := &mockJobService{
		createFn: func(ctx context.Context, employerID string, input job.CreateInput) (*model.Job, error) {
			return nil, model.NewValidationError("タイトルは必須です")
		},
	}
	collector := newMockCollector()
	h := NewJobHandler(svc, collector)

	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, employerRequest(http.MethodPost, "/api/jobs", `{}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if collector.jobsCreated != 0 {
		t.Errorf("jobsCreated = %d, want 0", collector.jobsCreated)
	}
}

// 部分更新でボディの指定フィールドのみがパッチに変換されることを検証
func TestJobHandler_Update_PartialPatch(t *testing.T) {
	var gotPatch model.JobPatch
	svc := &mockJobService{
		updateFn: func(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error) {
			if id != "job-1" {
				t.Errorf("id = %q, want job-1", id)
			}
			gotPatch = patch
			return &model.Job{ID: id, Status: model.JobStatusClosed}, nil
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, employerRequest(http.MethodPut, "/api/jobs/job-1", `{"status":"closed"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotPatch.Status == nil || *gotPatch.Status != model.JobStatusClosed {
		t.Errorf("patch.Status = %v, want closed", gotPatch.Status)
	}
	if gotPatch.Title != nil || gotPatch.Salary != nil {
		t.Errorf("unspecified fields should be nil: %+v", gotPatch)
	}
}

// 他の雇用者の求人の更新で404が返ることを検証
func TestJobHandler_Update_NotOwned(t *testing.T) {
	svc := &mockJobService{
		updateFn: func(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error) {
			return nil, model.NewJobNotFoundError()
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, employerRequest(http.MethodPut, "/api/jobs/job-other", `{"title":"new"}`))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// 求人削除の成功レスポンスを検証
func TestJobHandler_Delete_Success(t *testing.T) {
	svc := &mockJobService{
		deleteFn: func(ctx context.Context, employerID, id string) error {
			if employerID != "employer-1" || id != "job-1" {
				t.Errorf("Delete(%q, %q)", employerID, id)
			}
			return nil
		},
	}
	h := NewJobHandler(svc, newMockCollector())

	w := httptest.NewRecorder()
	jobTestRouter(h).ServeHTTP(w, employerRequest(http.MethodDelete, "/api/jobs/job-1", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message == "" {
		t.Errorf("envelope = %+v", env)
	}
}
