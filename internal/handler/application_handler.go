package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/metrics"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/view"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	// Submit は求人への応募を提出する。
	Submit(ctx context.Context, applicantID, jobID, coverLetter, resumeURL string) (*model.Application, error)
	// ListForJob は指定求人への応募を応募者情報付きで返す。
	ListForJob(ctx context.Context, employerID, jobID string) ([]repository.ApplicationJoinRow, error)
	// ListMine は応募者自身の応募を求人情報付きで返す。
	ListMine(ctx context.Context, applicantID string) ([]repository.ApplicationJoinRow, error)
	// ListForEmployer は雇用者が所有する全求人への応募を返す。
	ListForEmployer(ctx context.Context, employerID string) ([]repository.ApplicationJoinRow, error)
	// Get は指定IDの応募を結合情報付きで返す。
	Get(ctx context.Context, caller *model.User, id string) (*repository.ApplicationJoinRow, error)
	// UpdateStatus は応募の選考状態を更新する。
	UpdateStatus(ctx context.Context, employerID, id string, status model.ApplicationStatus) (*model.Application, error)
	// Withdraw は応募者自身の応募を取り下げる。
	Withdraw(ctx context.Context, applicantID, id string) error
}

// ApplicationHandler は応募管理のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
	metrics metrics.MetricsCollector
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface, collector metrics.MetricsCollector) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		metrics: collector,
	}
}

// submitRequest は応募提出リクエストのボディ。
type submitRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

// statusUpdateRequest は選考状態更新リクエストのボディ。
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// applicationResponse は結合情報なしの応募レスポンス。
// 提出直後・状態更新直後のレスポンスに使う。
type applicationResponse struct {
	ID          string `json:"_id"`
	JobID       string `json:"jobId"`
	ApplicantID string `json:"applicantId"`
	Status      string `json:"status"`
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toApplicationResponse(app *model.Application) applicationResponse {
	return applicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		ApplicantID: app.ApplicantID,
		Status:      string(app.Status),
		CoverLetter: app.CoverLetter,
		ResumeURL:   app.ResumeURL,
		CreatedAt:   app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   app.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Submit は求人への応募を提出する。
// POST /api/applications
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	app, err := h.service.Submit(r.Context(), user.ID, req.JobID, req.CoverLetter, req.ResumeURL)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeDuplicateApplication {
			h.metrics.RecordDuplicateApplication()
		}
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordApplicationSubmitted()
	writeSuccess(w, http.StatusCreated, toApplicationResponse(app))
}

// ListForJob は所有する求人への応募一覧を取得する。
// GET /api/applications/job/:jobId
func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	rows, err := h.service.ListForJob(r.Context(), user.ID, chi.URLParam(r, "jobId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewApplicationViews(rows))
}

// ListMine は応募者自身の応募一覧を取得する。
// GET /api/applications/my-applications
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	rows, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewApplicationViews(rows))
}

// ListForEmployer は雇用者が所有する全求人への応募一覧を取得する。
// GET /api/applications/employer/applications
func (h *ApplicationHandler) ListForEmployer(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	rows, err := h.service.ListForEmployer(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, view.NewApplicationViews(rows))
}

// Get は応募詳細を取得する。応募者本人と求人の所有雇用者のみ閲覧できる。
// GET /api/applications/:id
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	row, err := h.service.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	v := view.NewApplicationView(row)
	if v == nil {
		// 参照先の求人が削除済みの応募は未検出として扱う
		handleServiceError(w, model.NewApplicationNotFoundError())
		return
	}

	writeSuccess(w, http.StatusOK, v)
}

// UpdateStatus は応募の選考状態を更新する。
// PATCH /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), user.ID, chi.URLParam(r, "id"),
		model.ApplicationStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, toApplicationResponse(app))
}

// Withdraw は応募を取り下げる。
// DELETE /api/applications/:id
func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccessMessage(w, http.StatusOK, "応募を取り下げました。")
}
