package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusWriter records what the handler chain wrote.
type statusWriter struct {
	gin.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

var maskedParams = map[string]bool{
	"password": true, "token": true, "authorization": true,
	"access_token": true, "no_hp": true,
}

// maskQuery renders the query string with credentials and phone numbers hidden.
func maskQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	out := make(url.Values, len(q))
	for k, v := range q {
		if maskedParams[strings.ToLower(k)] {
			out[k] = []string{"****"}
			continue
		}
		out[k] = v
	}
	return out.Encode()
}

// AccessLog writes one line per request. Server errors go out at Warn so they
// survive a production level filter.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		w := &statusWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := w.status
		if status == 0 {
			status = c.Writer.Status()
		}
		fields := []zap.Field{
			zap.String("rid", RequestIDOf(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.Int("size", w.size),
		}
		if p := Principal(c); p != nil {
			fields = append(fields, zap.Int64("uid", p.ID), zap.String("role", string(p.Role)))
		}
		if q := maskQuery(c.Request.URL.Query()); q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if status >= http.StatusInternalServerError {
			l.Warn("http request", fields...)
			return
		}
		l.Info("http request", fields...)
	}
}
