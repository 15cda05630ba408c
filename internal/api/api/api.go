package api

import (
	"dubexpo/cmd/middleware"
	"dubexpo/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.GET("/content/:lang", r.Service.GetContent)
	apiGroup.GET("/packs", r.Service.GetPacks)
	apiGroup.POST("/registrations", r.Service.CreateRegistration)

	apiGroup.POST("/wizard", r.Service.StartWizard)
	apiGroup.GET("/wizard/:token", r.Service.WizardReview)
	apiGroup.PUT("/wizard/:token/personal", r.Service.WizardPersonal)
	apiGroup.PUT("/wizard/:token/program", r.Service.WizardProgram)
	apiGroup.POST("/wizard/:token/back", r.Service.WizardBack)
	apiGroup.POST("/wizard/:token/submit", r.Service.WizardSubmit)

	apiGroup.POST("/admin/login", r.Service.AdminLogin)

	admin := apiGroup.Group("/admin")
	admin.Use(r.Service.AdminAuth())
	admin.GET("/registrations", r.Service.AdminList)
	admin.PATCH("/registrations/:id/status", r.Service.AdminUpdateStatus)
	admin.DELETE("/registrations/:id", r.Service.AdminDelete)
	admin.GET("/export", r.Service.AdminExport)
	admin.POST("/wipe", r.Service.AdminWipe)

	app.GET("/health", func(c *ginext.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	app.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return app
}
