// Package user mounts account management endpoints.
package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/domain"
	"umkm-marketplace/internal/service"
	httpez "umkm-marketplace/internal/transport/http/ez"
	mdw "umkm-marketplace/internal/transport/http/middleware"
	resp "umkm-marketplace/internal/transport/http/response"
)

type Module struct {
	users *service.UserService
	log   *zap.Logger
}

func New(users *service.UserService, l *zap.Logger) *Module {
	return &Module{users: users, log: l}
}

func (m *Module) Priority() int { return 10 }

var (
	anyRole = access.RoleIs(domain.RoleUser, domain.RoleAdmin)
	admin   = access.RoleIs(domain.RoleAdmin)

	formID      = access.From(access.Form("id"))
	formQueryID = access.From(access.Form("id"), access.Query("id"))
)

type accountIn struct {
	Phone    string `form:"no_hp"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

type roleIn struct {
	Role string `form:"role"`
}

type suspendIn struct {
	Suspend string `form:"suspend"`
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, m.log)

	httpez.RegisterAction[struct{}, []domain.User](ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/user",
		Binder: httpez.BindNone,
		Guard:  &access.Route{Name: "user.list", Policy: access.Require(anyRole)},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return m.users.Visible(c.Request.Context(), *mdw.Principal(c))
		},
	})

	httpez.RegisterAction[accountIn, *domain.User](ez, httpez.Action[accountIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/user",
		Binder: httpez.BindForm,
		Guard:  &access.Route{Name: "user.create", Policy: access.Require(admin)},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *accountIn) (*domain.User, error) {
			return m.users.Create(c.Request.Context(), in.Phone, in.Password, in.Role)
		},
	})

	target := access.UserIDOrSelf(formID)
	httpez.RegisterAction[accountIn, *domain.User](ez, httpez.Action[accountIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/user",
		Binder: httpez.BindForm,
		Guard:  &access.Route{Name: "user.update", Policy: access.Require(anyRole, access.SelfOrAdmin(target))},
		Handler: func(c *gin.Context, in *accountIn) (*domain.User, error) {
			p := mdw.Principal(c)
			id, err := target(c.Request.Context(), p, c)
			if err != nil {
				return nil, err
			}
			return m.users.Update(c.Request.Context(), *p, id, service.UserUpdate{
				Phone: in.Phone, Password: in.Password, Role: in.Role,
			})
		},
	})

	httpez.RegisterAction[struct{}, resp.Message](ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/user",
		Binder: httpez.BindNone,
		Guard: &access.Route{Name: "user.delete", Policy: access.Require(
			anyRole, access.SelfOrAdmin(access.UserID(formQueryID)),
		)},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ID(c, formQueryID, "user id")
			if err != nil {
				return resp.Message{}, err
			}
			if err := m.users.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "user deleted"}, nil
		},
	})

	httpez.RegisterAction[roleIn, *domain.User](ez, httpez.Action[roleIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/user/role",
		Binder: httpez.BindForm,
		Guard:  &access.Route{Name: "user.role", Policy: access.Require(admin)},
		Handler: func(c *gin.Context, in *roleIn) (*domain.User, error) {
			id, err := httpez.ID(c, formID, "user id")
			if err != nil {
				return nil, err
			}
			return m.users.ChangeRole(c.Request.Context(), id, in.Role)
		},
	})
}

// MountAdmin expects the group to be restricted to administrators already.
func (m *Module) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g, m.log)

	httpez.RegisterAction[suspendIn, resp.Message](ez, httpez.Action[suspendIn, resp.Message]{
		Method: http.MethodPut,
		Path:   "/user/suspend",
		Binder: httpez.BindForm,
		Handler: func(c *gin.Context, in *suspendIn) (resp.Message, error) {
			id, err := httpez.ID(c, formID, "user id")
			if err != nil {
				return resp.Message{}, err
			}
			var suspend bool
			switch in.Suspend {
			case "true":
				suspend = true
			case "false":
			default:
				return resp.Message{}, httpez.BadRequest("suspend must be true or false")
			}
			if err := m.users.SetSuspended(c.Request.Context(), id, suspend); err != nil {
				return resp.Message{}, err
			}
			if suspend {
				return resp.Message{Message: "user suspended"}, nil
			}
			return resp.Message{Message: "user reactivated"}, nil
		},
	})

	httpez.RegisterAction[accountIn, *domain.User](ez, httpez.Action[accountIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/add_user",
		Binder: httpez.BindForm,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *accountIn) (*domain.User, error) {
			return m.users.Create(c.Request.Context(), in.Phone, in.Password, in.Role)
		},
	})
}
