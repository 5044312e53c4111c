package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
)

func rateLimitedRequest(t *testing.T, handler http.Handler, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req = req.WithContext(ContextWithUser(req.Context(),
		&model.User{ID: userID, Role: model.RoleJobSeeker}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// バースト上限まで許可され、超過分が429になることを検証
func TestRateLimiter_GeneralMiddleware(t *testing.T) {
	config := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    3,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	}
	rl := NewRateLimiter(config)
	defer rl.Stop()

	next, _ := okHandler()
	handler := rl.GeneralMiddleware()(next)

	for i := 0; i < 3; i++ {
		w := rateLimitedRequest(t, handler, "user-1")
		if w.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := rateLimitedRequest(t, handler, "user-1")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}

	var body Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Error != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %q, want RATE_LIMIT_EXCEEDED", body.Error)
	}
}

// ユーザーごとに独立してカウントされることを検証
func TestRateLimiter_PerUser(t *testing.T) {
	config := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	}
	rl := NewRateLimiter(config)
	defer rl.Stop()

	next, _ := okHandler()
	handler := rl.GeneralMiddleware()(next)

	if w := rateLimitedRequest(t, handler, "user-1"); w.Code != http.StatusOK {
		t.Errorf("user-1 first request: status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := rateLimitedRequest(t, handler, "user-1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("user-1 second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// 別ユーザーは制限されない
	if w := rateLimitedRequest(t, handler, "user-2"); w.Code != http.StatusOK {
		t.Errorf("user-2 first request: status = %d, want %d", w.Code, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
}

// 応募提出の制限が一般APIの制限と独立していることを検証
func TestRateLimiter_SubmitIndependent(t *testing.T) {
	config := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    10,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: time.Minute,
	}
	rl := NewRateLimiter(config)
	defer rl.Stop()

	next, _ := okHandler()
	general := rl.GeneralMiddleware()(next)
	submit := rl.SubmitMiddleware()(next)

	if w := rateLimitedRequest(t, submit, "user-1"); w.Code != http.StatusOK {
		t.Errorf("submit first request: status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := rateLimitedRequest(t, submit, "user-1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("submit second request: status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// 提出が制限されていても一般APIは通る
	if w := rateLimitedRequest(t, general, "user-1"); w.Code != http.StatusOK {
		t.Errorf("general request: status = %d, want %d", w.Code, http.StatusOK)
	}
}

// 未認証コンテキストで401になることを検証
func TestRateLimiter_NoUser(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	next, called := okHandler()
	handler := rl.GeneralMiddleware()(next)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler should not be called")
	}
}

// 期限切れエントリがクリーンアップで削除されることを検証
func TestRateLimiter_Cleanup(t *testing.T) {
	config := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		SubmitRate:      1,
		SubmitBurst:     1,
		CleanupInterval: 10 * time.Millisecond,
	}
	rl := NewRateLimiter(config)
	defer rl.Stop()

	next, _ := okHandler()
	handler := rl.GeneralMiddleware()(next)
	rateLimitedRequest(t, handler, "user-1")

	if got := rl.GeneralLimiterCount(); got != 1 {
		t.Fatalf("GeneralLimiterCount() = %d, want 1", got)
	}

	// TTL（CleanupIntervalの2倍）経過後にクリーンアップされるのを待つ
	deadline := time.Now().Add(time.Second)
	for rl.GeneralLimiterCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("limiter entry was not cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// デフォルト設定値の検証
func TestNewRateLimiterConfig(t *testing.T) {
	config := NewRateLimiterConfig(120, 10)

	if config.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", config.GeneralBurst)
	}
	if config.SubmitBurst != 10 {
		t.Errorf("SubmitBurst = %d, want 10", config.SubmitBurst)
	}
	if float64(config.GeneralRate) != 2.0 {
		t.Errorf("GeneralRate = %v, want 2.0", config.GeneralRate)
	}
}
