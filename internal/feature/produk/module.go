// Package produk mounts product endpoints. Every product route is checked
// against the state of the storefront that sells it.
package produk

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/domain"
	"umkm-marketplace/internal/feature/umkm"
	"umkm-marketplace/internal/service"
	httpez "umkm-marketplace/internal/transport/http/ez"
	resp "umkm-marketplace/internal/transport/http/response"
)

type Module struct {
	svc      *service.ProductService
	umkms    access.ResourceLookup
	products access.ResourceLookup
	log      *zap.Logger
}

// New wires the product endpoints. umkms resolves storefront ids and
// products resolves product ids to their storefront's owner and status.
func New(svc *service.ProductService, umkms, products access.ResourceLookup, l *zap.Logger) *Module {
	return &Module{svc: svc, umkms: umkms, products: products, log: l}
}

func (m *Module) Priority() int { return 30 }

var (
	anyRole = access.RoleIs(domain.RoleUser, domain.RoleAdmin)

	listUMKM     = access.From(access.Query("umkm_id"), access.Form("id_umkm"))
	formUMKM     = access.From(access.Form("id_umkm"))
	ownerUMKM    = access.From(access.Form("id_umkm"), access.Query("umkm_id"))
	storefrontID = access.From(access.Form("id_umkm"), access.Path("umkm_id"), access.Query("umkm_id"))
	formID       = access.From(access.Form("id"))
	formQueryID  = access.From(access.Form("id"), access.Query("id"))
)

func (m *Module) productGate(ids access.Extractors) access.StateGate {
	return access.StateGate{Name: "product", Lookup: m.products, IDs: ids}
}

func (m *Module) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api, m.log)

	httpez.RegisterAction[struct{}, []domain.Product](ez, httpez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/produk",
		Binder: httpez.BindNone,
		Guard: &access.Route{
			Name:   "produk.list",
			Policy: access.Require(anyRole),
			States: []access.StateGate{umkm.Gate(m.umkms, listUMKM, true)},
		},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			id, err := httpez.ID(c, listUMKM, "umkm_id")
			if err != nil {
				return nil, err
			}
			return m.svc.ListByUMKM(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction[service.ProductInput, *domain.Product](ez, httpez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/produk",
		Binder: httpez.BindForm,
		Guard: &access.Route{
			Name:   "produk.create",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.umkms, formUMKM))),
			States: []access.StateGate{
				umkm.Gate(m.umkms, ownerUMKM, true),
				umkm.Gate(m.umkms, storefrontID, false),
			},
		},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			return m.svc.Create(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction[service.ProductInput, *domain.Product](ez, httpez.Action[service.ProductInput, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/produk",
		Binder: httpez.BindForm,
		Guard: &access.Route{
			Name:   "produk.update",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.products, formID))),
			States: []access.StateGate{m.productGate(formID)},
		},
		Handler: func(c *gin.Context, in *service.ProductInput) (*domain.Product, error) {
			id, err := httpez.ID(c, formID, "product id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction[struct{}, resp.Message](ez, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/produk",
		Binder: httpez.BindNone,
		Guard: &access.Route{
			Name:   "produk.delete",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.products, formQueryID))),
			States: []access.StateGate{m.productGate(formQueryID)},
		},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ID(c, formQueryID, "product id")
			if err != nil {
				return resp.Message{}, err
			}
			if err := m.svc.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "product deleted"}, nil
		},
	})

	type publishIn struct {
		IsPublik string `form:"is_publik"`
	}
	httpez.RegisterAction[publishIn, *domain.Product](ez, httpez.Action[publishIn, *domain.Product]{
		Method: http.MethodPut,
		Path:   "/produk/publish",
		Binder: httpez.BindForm,
		Guard: &access.Route{
			Name:   "produk.publish",
			Policy: access.Require(anyRole, access.ResourceOwnerOrAdmin(access.OwnerOf(m.products, formID))),
		},
		Handler: func(c *gin.Context, in *publishIn) (*domain.Product, error) {
			id, err := httpez.ID(c, formID, "product id")
			if err != nil {
				return nil, err
			}
			return m.svc.SetPublished(c.Request.Context(), id, in.IsPublik)
		},
	})
}
