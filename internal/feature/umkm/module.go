// Package umkm mounts storefront endpoints.
package umkm

import (
	"net/http"
	"strconv"

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
	svc    *service.UMKMService
	lookup access.ResourceLookup
	log    *zap.Logger
}

// New wires the storefront endpoints. lookup answers owner and status
// questions for storefront ids.
func New(svc *service.UMKMService, lookup access.ResourceLookup, l *zap.Logger) *Module {
	return &Module{svc: svc, lookup: lookup, log: l}
}

func (m *Module) Priority() int { return 20 }

var (
	anyRole = access.RoleIs(domain.RoleUser, domain.RoleAdmin)

	// ids checked by the storefront suspension gate, in precedence order
	gateIDs     = access.From(access.Form("id_umkm"), access.Path("umkm_id"), access.Query("umkm_id"))
	formID      = access.From(access.Form("id"))
	formQueryID = access.From(access.Form("id"), access.Query("id"))
	pathUserID  = access.From(access.Path("user_id"))
)

// Gate is the storefront state gate over ids.
func Gate(lookup access.ResourceLookup, ids access.Extractors, ownerWhenInactive bool) access.StateGate {
	return access.StateGate{Name: "umkm", Lookup: lookup, IDs: ids, OwnerWhenInactive: ownerWhenInactive}
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, m.log)

	httpez.RegisterAction[struct{}, []service.Summary](ez, httpez.Action[struct{}, []service.Summary]{
		Method: http.MethodGet,
		Path:   "/umkm",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.Summary, error) {
			return m.svc.Listing(c.Request.Context())
		},
	})

	httpez.RegisterAction[service.UMKMInput, *domain.UMKM](ez, httpez.Action[service.UMKMInput, *domain.UMKM]{
		Method: http.MethodPost,
		Path:   "/umkm",
		Binder: httpez.BindForm,
		Guard: &access.Route{
			Name:   "umkm.create",
			Policy: access.Require(anyRole),
			States: []access.StateGate{Gate(m.lookup, gateIDs, false)},
		},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.UMKMInput) (*domain.UMKM, error) {
			return m.svc.Create(c.Request.Context(), *mdw.Principal(c), *in)
		},
	})

	httpez.RegisterAction[service.UMKMInput, *domain.UMKM](ez, httpez.Action[service.UMKMInput, *domain.UMKM]{
		Method: http.MethodPut,
		Path:   "/umkm",
		Binder: httpez.BindForm,
		Guard: &access.Route{
			Name:   "umkm.update",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.lookup, formID))),
			States: []access.StateGate{Gate(m.lookup, formID, false)},
		},
		Handler: func(c *gin.Context, in *service.UMKMInput) (*domain.UMKM, error) {
			id, err := httpez.ID(c, formID, "umkm id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), *mdw.Principal(c), id, *in)
		},
	})

	httpez.RegisterAction[struct{}, resp.Message](ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/umkm",
		Binder: httpez.BindNone,
		Guard: &access.Route{
			Name:   "umkm.delete",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.lookup, formQueryID))),
		},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ID(c, formQueryID, "umkm id")
			if err != nil {
				return resp.Message{}, err
			}
			if err := m.svc.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "umkm deleted"}, nil
		},
	})

	pathID := access.From(access.Path("umkm_id"))
	httpez.RegisterAction[struct{}, *domain.UMKM](ez, httpez.Action[struct{}, *domain.UMKM]{
		Method: http.MethodGet,
		Path:   "/umkm/:umkm_id",
		Binder: httpez.BindNone,
		Guard: &access.Route{
			Name:   "umkm.detail",
			Policy: access.Require(anyRole),
			States: []access.StateGate{Gate(m.lookup, pathID, false)},
		},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.UMKM, error) {
			id, err := httpez.ID(c, pathID, "umkm id")
			if err != nil {
				return nil, err
			}
			return m.svc.Detail(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction[struct{}, []any](ez, httpez.Action[struct{}, []any]{
		Method: http.MethodGet,
		Path:   "/umkm/user/:user_id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]any, error) {
			uid, err := httpez.ID(c, pathUserID, "user id")
			if err != nil {
				return nil, err
			}
			return m.svc.ByUser(c.Request.Context(), uid)
		},
	})

	httpez.RegisterAction[struct{}, []domain.UMKM](ez, httpez.Action[struct{}, []domain.UMKM]{
		Method: http.MethodGet,
		Path:   "/umkm/nonaktif/user/:user_id",
		Binder: httpez.BindNone,
		Guard: &access.Route{
			Name:   "umkm.inactive_by_user",
			Policy: access.Require(anyRole, access.SelfOrAdmin(access.UserID(pathUserID))),
		},
		Handler: m.inactiveOfUser,
	})
}

// MountAdmin expects the group to be restricted to administrators already.
func (m *Module) MountAdmin(g *gin.RouterGroup) {
	ez := httpez.New(g, m.log)

	type statusIn struct {
		Status string `form:"status"`
	}
	httpez.RegisterAction[statusIn, *domain.UMKM](ez, httpez.Action[statusIn, *domain.UMKM]{
		Method: http.MethodPut,
		Path:   "/umkm/status",
		Binder: httpez.BindForm,
		Handler: func(c *gin.Context, in *statusIn) (*domain.UMKM, error) {
			id, err := httpez.ID(c, formID, "umkm id")
			if err != nil {
				return nil, err
			}
			return m.svc.SetStatus(c.Request.Context(), id, in.Status)
		},
	})

	httpez.RegisterAction[struct{}, []domain.UMKM](ez, httpez.Action[struct{}, []domain.UMKM]{
		Method: http.MethodGet,
		Path:   "/umkm/nonaktif",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.UMKM, error) {
			return m.svc.Inactive(c.Request.Context(), nil)
		},
	})

	httpez.RegisterAction[struct{}, []domain.UMKM](ez, httpez.Action[struct{}, []domain.UMKM]{
		Method:  http.MethodGet,
		Path:    "/umkm/nonaktif/:user_id",
		Binder:  httpez.BindNone,
		Handler: m.inactiveOfUser,
	})

	type deletedOut struct {
		Message string       `json:"message"`
		UMKM    *domain.UMKM `json:"umkm"`
	}
	httpez.RegisterAction[struct{}, deletedOut](ez, httpez.Action[struct{}, deletedOut]{
		Method: http.MethodDelete,
		Path:   "/umkm/nonaktif/:user_id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deletedOut, error) {
			uid, err := httpez.ID(c, pathUserID, "user id")
			if err != nil {
				return deletedOut{}, err
			}
			id, err := httpez.ID(c, formQueryID, "umkm id")
			if err != nil {
				return deletedOut{}, err
			}
			u, err := m.svc.DeleteInactive(c.Request.Context(), id, uid)
			if err != nil {
				return deletedOut{}, err
			}
			return deletedOut{Message: "inactive umkm " + strconv.FormatInt(id, 10) + " deleted", UMKM: u}, nil
		},
	})
}

func (m *Module) inactiveOfUser(c *gin.Context, _ *struct{}) ([]domain.UMKM, error) {
	uid, err := httpez.ID(c, pathUserID, "user id")
	if err != nil {
		return nil, err
	}
	return m.svc.Inactive(c.Request.Context(), &uid)
}
