// Package ez registers gin handlers as typed actions: bind the input, run the
// route's access plan, call the handler, map the error.
package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/domain"
	mdw "umkm-marketplace/internal/transport/http/middleware"
	resp "umkm-marketplace/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

type Binder string

const (
	BindForm  Binder = "form"  // urlencoded or multipart body, plus query
	BindQuery Binder = "query" // URL ?a=b only
	BindJSON  Binder = "json"
	BindNone  Binder = "none" // handler reads c.Param / c.PostForm itself
)

// AErr carries an explicit status out of a handler.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Statuser lets an output choose its own success status.
type Statuser interface{ HTTPStatus() int }

// Action describes one endpoint. I is the bound input, O the JSON output.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Guard   *access.Route // nil: identity and suspension only
	Status  int           // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindForm:
			bindErr = c.ShouldBindWith(&in, binding.Form)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				resp.Abort(c, http.StatusRequestEntityTooLarge, "")
				return
			}
			e.log.Debug("bind failed", zap.String("rid", mdw.RequestIDOf(c)), zap.Error(bindErr))
			resp.Abort(c, http.StatusBadRequest, bindMessage(a.Binder))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			status, msg := StatusOf(err)
			if status >= http.StatusInternalServerError {
				e.log.Error("action failed",
					zap.String("rid", mdw.RequestIDOf(c)),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			resp.Abort(c, status, msg)
			return
		}
		status := a.Status
		if st, ok := any(out).(Statuser); ok {
			status = st.HTTPStatus()
		}
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	handlers := []gin.HandlerFunc{h}
	if a.Guard != nil {
		handlers = []gin.HandlerFunc{mdw.Authorize(*a.Guard, e.log), h}
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, handlers...)
}

// StatusOf maps a handler error to a status and client message. Internal
// failures never expose their cause.
func StatusOf(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Code >= http.StatusInternalServerError {
			return ae.Code, resp.Msg(ae.Code, ae.Msg)
		}
		return ae.Code, ae.Error()
	}
	if r, ok := access.AsRejection(err); ok {
		return r.Status(), r.Msg
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusUnauthorized, "invalid phone number or password"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp.Msg(http.StatusGatewayTimeout, "")
	}
	return http.StatusInternalServerError, resp.Msg(http.StatusInternalServerError, "")
}

// ID reads a required integer id from the first extractor that has one.
func ID(c *gin.Context, xs access.Extractors, name string) (int64, error) {
	id, ok, err := xs.ID(c)
	if err != nil {
		return 0, BadRequest("invalid " + name)
	}
	if !ok {
		return 0, BadRequest("missing " + name)
	}
	return id, nil
}

// bindMessage is what a client sees when its input cannot be decoded.
func bindMessage(b Binder) string {
	switch b {
	case BindJSON:
		return "invalid json body"
	case BindQuery:
		return "invalid query parameters"
	}
	return "invalid form data"
}
