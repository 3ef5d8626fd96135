package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umkm-marketplace/internal/domain"
	"umkm-marketplace/internal/service"
	httpez "umkm-marketplace/internal/transport/http/ez"
)

type authIn struct {
	Phone    string `form:"no_hp"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

type authOut struct {
	Message   string       `json:"message,omitempty"`
	Token     string       `json:"token"`
	User      *domain.User `json:"user,omitempty"`
	Log       string       `json:"log,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
	status    int
}

func (o authOut) HTTPStatus() int { return o.status }

// mountAuthActions registers POST /auth. With a role the caller registers,
// without one the caller logs in.
func mountAuthActions(api *gin.RouterGroup, l *zap.Logger, auth *service.AuthService) {
	ez := httpez.New(api, l)

	httpez.RegisterAction[authIn, authOut](ez, httpez.Action[authIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth",
		Binder: httpez.BindForm,
		Handler: func(c *gin.Context, in *authIn) (authOut, error) {
			if in.Role != "" {
				s, err := auth.Register(c.Request.Context(), in.Phone, in.Password, in.Role)
				if err != nil {
					return authOut{}, err
				}
				return authOut{Token: s.Token, User: s.User, status: http.StatusCreated}, nil
			}
			s, err := auth.Login(c.Request.Context(), in.Phone, in.Password)
			if err != nil {
				return authOut{}, err
			}
			ts := s.User.Timestamp
			return authOut{
				Message:   "Login successful",
				Token:     s.Token,
				Log:       s.User.Log,
				Timestamp: &ts,
			}, nil
		},
	})
}
