package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/auth"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/metrics"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録し、セッショントークンを発行する。
	Register(ctx context.Context, input auth.RegisterInput) (*model.User, string, error)
	// Login はメールアドレスとパスワードを検証し、セッショントークンを発行する。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: collector,
	}
}

// registerRequest は登録リクエストのボディ。
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Company  string `json:"company"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse は登録・ログイン成功時のレスポンスデータ。
type authResponse struct {
	User  view.UserView `json:"user"`
	Token string        `json:"token"`
}

// Register は新規ユーザーを登録する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	user, token, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
		Company:  req.Company,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, authResponse{
		User:  view.NewUserView(user),
		Token: token,
	})
}

// Login はメールアドレスとパスワードでログインする。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.RecordAuthFailure("invalid_credentials")
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, authResponse{
		User:  view.NewUserView(user),
		Token: token,
	})
}

// Me は認証済みユーザー自身の情報を返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	writeSuccess(w, http.StatusOK, view.NewUserView(user))
}
