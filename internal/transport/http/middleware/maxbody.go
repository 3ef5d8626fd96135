package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "umkm-marketplace/internal/transport/http/response"
)

// MaxBodyBytes limits the request body to n bytes. Form parsing that trips
// the limit is reported as 413.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		var mbe *http.MaxBytesError
		for _, e := range c.Errors {
			if errors.As(e.Err, &mbe) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
		}
	}
}
