package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/metrics"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/middleware"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

// Pinger はヘルスチェック用のDB疎通確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	UserResolver      middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService        AuthServiceInterface
	JobService         JobServiceInterface
	ApplicationService ApplicationServiceInterface

	// 可観測性
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	DB Pinger

	// 非本番環境では内部エラーの詳細をレスポンスに含める
	IncludeErrorDetail bool
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging
//	認証ルートグループ: → Auth → RateLimit(General) → [RequireRole]
//
// 求人の閲覧（一覧・詳細）と登録・ログインは認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	SetIncludeErrorDetail(deps.IncludeErrorDetail)

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	// サブルーターに引き継がれるよう、ルート定義より先に設定する
	r.NotFound(notFoundHandler)

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	jobHandler := NewJobHandler(deps.JobService, deps.Metrics)
	appHandler := NewApplicationHandler(deps.ApplicationService, deps.Metrics)

	authRequired := middleware.NewAuthMiddleware(deps.UserResolver)
	employerOnly := middleware.RequireRole(model.RoleEmployer)
	jobSeekerOnly := middleware.RequireRole(model.RoleJobSeeker)

	// --- 認証不要のルート ---

	r.Get("/", welcomeHandler)
	r.Get("/health", healthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.With(authRequired).Get("/me", authHandler.Me)
		})

		r.Route("/jobs", func(r chi.Router) {
			// 求人の閲覧は認証不要
			r.Get("/", jobHandler.List)

			// 静的パスは{id}より先に登録する
			r.With(authRequired, employerOnly, deps.RateLimiter.GeneralMiddleware()).
				Get("/employer/jobs", jobHandler.ListMine)

			r.Get("/{id}", jobHandler.Get)

			// 求人の作成・更新・削除は雇用者のみ
			r.Group(func(r chi.Router) {
				r.Use(authRequired, employerOnly, deps.RateLimiter.GeneralMiddleware())

				// 作成は非冪等のため厳しめのレート制限を追加
				r.With(deps.RateLimiter.SubmitMiddleware()).Post("/", jobHandler.Create)
				r.Put("/{id}", jobHandler.Update)
				r.Delete("/{id}", jobHandler.Delete)
			})
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(authRequired)
			r.Use(deps.RateLimiter.GeneralMiddleware())

			// 求職者のルート
			r.With(jobSeekerOnly, deps.RateLimiter.SubmitMiddleware()).Post("/", appHandler.Submit)
			r.With(jobSeekerOnly).Get("/my-applications", appHandler.ListMine)
			r.With(jobSeekerOnly).Delete("/{id}", appHandler.Withdraw)

			// 雇用者のルート
			r.With(employerOnly).Get("/job/{jobId}", appHandler.ListForJob)
			r.With(employerOnly).Get("/employer/applications", appHandler.ListForEmployer)
			r.With(employerOnly).Patch("/{id}/status", appHandler.UpdateStatus)

			// 詳細は応募者本人・求人所有者のどちらも閲覧できる
			r.Get("/{id}", appHandler.Get)
		})
	})

	return r
}

// welcomeHandler はAPIのバージョンとエンドポイント一覧を返す。
// GET /
func welcomeHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"name":    "Job Portal API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":         "/api/auth",
			"jobs":         "/api/jobs",
			"applications": "/api/applications",
		},
	})
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			middleware.WriteErrorResponse(w, http.StatusServiceUnavailable, &model.APIError{
				Code:     "UNHEALTHY",
				Message:  "データベースに接続できません。",
				Category: "system",
				Action:   "しばらく待ってから再度お試しください。",
			})
			return
		}

		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// notFoundHandler は未定義ルートへのアクセスに404エンベロープを返す。
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	middleware.WriteErrorResponse(w, http.StatusNotFound, &model.APIError{
		Code:     "ROUTE_NOT_FOUND",
		Message:  "Route not found",
		Category: "system",
		Action:   "リクエストのパスとメソッドを確認してください。",
	})
}
