// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registry *prometheus.Registry

	httpStatus    *prometheus.CounterVec
	submissions   prometheus.Counter
	loginFailures prometheus.Counter
	lockouts      prometheus.Counter
	exports       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、レジストリにメトリクスを登録する。
func NewCollector(registry *prometheus.Registry) *Collector {
	c := &Collector{
		registry: registry,
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kirei_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kirei_contact_submissions_total",
			Help: "受け付けた問い合わせ送信の合計数",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kirei_login_failures_total",
			Help: "管理者ログイン失敗の合計数",
		}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kirei_login_rate_limited_total",
			Help: "レート制限で拒否されたログイン試行の合計数",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kirei_exports_total",
			Help: "フォーマット別のエクスポート実行数",
		}, []string{"format"}),
	}

	registry.MustRegister(c.httpStatus, c.submissions, c.loginFailures, c.lockouts, c.exports)
	return c
}

// RecordHTTPStatus はレスポンスのステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSubmission は問い合わせ送信の受け付けを記録する。
func (c *Collector) RecordSubmission() {
	c.submissions.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// RecordRateLimited はレート制限によるログイン拒否を記録する。
func (c *Collector) RecordRateLimited() {
	c.lockouts.Inc()
}

// RecordExport はエクスポート実行を記録する。
func (c *Collector) RecordExport(format string) {
	c.exports.WithLabelValues(format).Inc()
}

// Handler は /metrics 用のHTTPハンドラを返す。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// statusRecorder はステータスコード取得のための ResponseWriter ラッパー
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

// Middleware はレスポンスのステータスコードを集計するミドルウェアを返す。
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sr, r)
		c.RecordHTTPStatus(sr.statusCode)
	})
}
