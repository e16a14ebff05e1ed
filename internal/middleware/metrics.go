package middleware

import (
	"net/http"
	"time"
)

// MetricsRecorder はリクエストメトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordAuthReject()
}

// NewMetricsMiddleware はリクエストごとにステータスコードとレイテンシを記録する
// ミドルウェアを返す。401レスポンスは認証拒否としても集計する。
func NewMetricsMiddleware(recorder MetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordRequestDuration(time.Since(start))
			if rec.statusCode == http.StatusUnauthorized {
				recorder.RecordAuthReject()
			}
		})
	}
}
