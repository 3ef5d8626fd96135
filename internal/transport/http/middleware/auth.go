package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/domain"
	resp "umkm-marketplace/internal/transport/http/response"
)

const KeyPrincipal = "principal"

// Authenticate resolves the caller and applies the suspension gate. Requests
// to allow-listed paths pass through with no principal attached.
func Authenticate(pl *access.Pipeline, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := pl.Admit(c.Request.Context(), c.GetHeader("Authorization"), c.Request.URL.Path)
		if err != nil {
			Reject(c, l, err)
			return
		}
		if p != nil {
			c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), *p))
			c.Set(KeyPrincipal, p)
		}
		c.Next()
	}
}

// Authorize runs a route's permission chain and resource state gates.
func Authorize(route access.Route, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := route.Authorize(c.Request.Context(), Principal(c), c); err != nil {
			Reject(c, l, err)
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated caller, or nil on public routes.
func Principal(c *gin.Context) *domain.Principal {
	return access.PrincipalFrom(c.Request.Context())
}

// Reject writes the envelope for an access failure. Errors that are not
// rejections are treated as internal failures.
func Reject(c *gin.Context, l *zap.Logger, err error) {
	if r, ok := access.AsRejection(err); ok {
		accessRejections.WithLabelValues(string(r.Stage), string(r.Reason)).Inc()
		l.Info("access rejected",
			zap.String("rid", RequestIDOf(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("stage", string(r.Stage)),
			zap.String("reason", string(r.Reason)),
			zap.String("msg", r.Msg),
		)
		resp.Abort(c, r.Status(), r.Msg)
		return
	}
	l.Error("access check failed", zap.String("rid", RequestIDOf(c)), zap.Error(err))
	resp.Abort(c, http.StatusInternalServerError, "")
}
