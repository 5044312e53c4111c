// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordJobCreated()
	RecordApplicationSubmitted()
	RecordDuplicateApplication()
	RecordAuthFailure(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus           *prometheus.CounterVec
	requestLatency       prometheus.Histogram
	jobsCreated          prometheus.Counter
	applicationsSubmitted prometheus.Counter
	duplicateApplications prometheus.Counter
	authFailures         *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobportal_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobportal_request_latency_seconds",
			Help:    "リクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		jobsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_jobs_created_total",
			Help: "作成された求人の合計数",
		}),
		applicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_applications_submitted_total",
			Help: "提出された応募の合計数",
		}),
		duplicateApplications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_duplicate_applications_total",
			Help: "一意制約で拒否された二重応募の合計数",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobportal_auth_failures_total",
			Help: "認証失敗の合計数（理由別）",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.jobsCreated,
		c.applicationsSubmitted,
		c.duplicateApplications,
		c.authFailures,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordJobCreated は求人作成を記録する。
func (c *Collector) RecordJobCreated() {
	c.jobsCreated.Inc()
}

// RecordApplicationSubmitted は応募提出を記録する。
func (c *Collector) RecordApplicationSubmitted() {
	c.applicationsSubmitted.Inc()
}

// RecordDuplicateApplication は二重応募の拒否を記録する。
func (c *Collector) RecordDuplicateApplication() {
	c.duplicateApplications.Inc()
}

// RecordAuthFailure は認証失敗を理由別に記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
