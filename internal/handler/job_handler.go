package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/job"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/metrics"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/view"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	// List はフィルタ条件に合致する求人を新しい順で返す。
	List(ctx context.Context, filter model.JobFilter) ([]*model.Job, error)
	// Get は指定IDの求人を返す。
	Get(ctx context.Context, id string) (*model.Job, error)
	// ListByEmployer は指定雇用者が所有する求人を新しい順で返す。
	ListByEmployer(ctx context.Context, employerID string) ([]*model.Job, error)
	// Create は新しい求人を作成する。
	Create(ctx context.Context, employerID string, input job.CreateInput) (*model.Job, error)
	// Update は所有する求人を部分更新する。
	Update(ctx context.Context, employerID, id string, patch model.JobPatch) (*model.Job, error)
	// Delete は所有する求人を削除する。
	Delete(ctx context.Context, employerID, id string) error
}

// JobHandler は求人管理のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
	metrics metrics.MetricsCollector
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface, collector metrics.MetricsCollector) *JobHandler {
	return &JobHandler{
		service: service,
		metrics: collector,
	}
}

// salaryRequest は給与レンジのリクエスト表現。
type salaryRequest struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// jobCreateRequest は求人作成リクエストのボディ。
type jobCreateRequest struct {
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Location     string        `json:"location"`
	Type         string        `json:"type"`
	Description  string        `json:"description"`
	Requirements string        `json:"requirements"`
	Salary       salaryRequest `json:"salary"`
}

// jobUpdateRequest は求人の部分更新リクエストのボディ。
// nilのフィールドは既存値を維持する。
type jobUpdateRequest struct {
	Title        *string        `json:"title"`
	Company      *string        `json:"company"`
	Location     *string        `json:"location"`
	Type         *string        `json:"type"`
	Description  *string        `json:"description"`
	Requirements *string        `json:"requirements"`
	Salary       *salaryRequest `json:"salary"`
	Status       *string        `json:"status"`
}

// List は求人一覧を取得する。検索・勤務地・状態のフィルタに対応する。
// GET /api/jobs?search=&location=&status=
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.JobFilter{
		Search:   r.URL.Query().Get("search"),
		Location: r.URL.Query().Get("location"),
		Status:   r.URL.Query().Get("status"),
	}

	jobs, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewJobViews(jobs))
}

// Get は求人詳細を取得する。
// GET /api/jobs/:id
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewJobView(j))
}

// ListMine は認証済み雇用者が所有する求人一覧を取得する。
// GET /api/jobs/employer/jobs
func (h *JobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	jobs, err := h.service.ListByEmployer(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewJobViews(jobs))
}

// Create は新しい求人を作成する。
// POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req jobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	created, err := h.service.Create(r.Context(), user.ID, job.CreateInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         model.JobType(req.Type),
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary: model.Salary{
			Min:      req.Salary.Min,
			Max:      req.Salary.Max,
			Currency: req.Salary.Currency,
		},
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordJobCreated()
	writeSuccess(w, http.StatusCreated, view.NewJobView(created))
}

// Update は所有する求人を部分更新する。
// PUT /api/jobs/:id
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req jobUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), toJobPatch(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewJobView(updated))
}

// Delete は所有する求人を削除する。
// DELETE /api/jobs/:id
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessMessage(w, http.StatusOK, "求人を削除しました。")
}

// toJobPatch は部分更新リクエストをドメインのJobPatchに変換する。
func toJobPatch(req jobUpdateRequest) model.JobPatch {
	patch := model.JobPatch{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	if req.Type != nil {
		t := model.JobType(*req.Type)
		patch.Type = &t
	}
	if req.Salary != nil {
		patch.Salary = &model.Salary{
			Min:      req.Salary.Min,
			Max:      req.Salary.Max,
			Currency: req.Salary.Currency,
		}
	}
	if req.Status != nil {
		s := model.JobStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}
