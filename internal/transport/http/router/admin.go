package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"umkm-marketplace/internal/access"
	"umkm-marketplace/internal/domain"
	mdw "umkm-marketplace/internal/transport/http/middleware"
)

// AdminOnly guards the whole /admin/v1 group.
var AdminOnly = access.Route{Name: "admin", Policy: access.Require(access.RoleIs(domain.RoleAdmin))}

func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Authenticate(d.Pipeline, d.Log), mdw.Authorize(AdminOnly, d.Log))

	admin.GET("/dashboard", func(c *gin.Context) {
		p := mdw.Principal(c)
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the admin lobby", "id": p.ID, "no_hp": p.Phone})
	})
	d.Modules.MountAllAdmin(admin)
	return r
}
