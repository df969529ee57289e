package router

import (
	"log/slog"
	"net/http"

	"hospital-directory/internal/config"
	"hospital-directory/internal/handler"
	"hospital-directory/internal/middleware"
	"hospital-directory/internal/observability"
	"hospital-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type Deps struct {
	Config   *config.Config
	Log      *slog.Logger
	Gatherer prometheus.Gatherer
	Prom     *observability.Prom

	Auth      *service.AuthService
	Hospitals *service.HospitalService
	Catalog   *service.CatalogService

	// Readiness checks keyed by component name
	Checks map[string]handler.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if d.Config.Tracing.Endpoint != "" {
		r.Use(otelgin.Middleware(d.Config.Tracing.ServiceName))
	}
	r.Use(middleware.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(d.Config))

	health := handler.NewHealthHandler(d.Checks, d.Log)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authHandler := handler.NewAuthHandler(d.Auth, d.Prom, d.Log)
	hospitalHandler := handler.NewHospitalHandler(d.Hospitals, d.Log)
	serviceHandler := handler.NewServiceHandler(d.Catalog, d.Log)
	mapHandler := handler.NewMapHandler(d.Config.Map.MapboxToken)
	frontend := handler.NewFrontendHandler(d.Config.Frontend.DistDir)

	requireHospital := middleware.RequireHospital(d.Auth, d.Log)

	api := r.Group("/api")
	api.Use(middleware.MaxBodyBytes(maxBodyBytes))
	{
		api.GET("/", apiRoot)

		api.POST("/login/", authHandler.Login)
		api.POST("/register/", authHandler.Register)
		api.GET("/mapbox-token/", mapHandler.MapboxToken)

		hospitals := api.Group("/hospitals")
		{
			hospitals.GET("/", hospitalHandler.ListHospitals)
			hospitals.POST("/", authHandler.Register)

			hospitals.GET("/me/", requireHospital, authHandler.Me)
			hospitals.PUT("/me/", requireHospital, hospitalHandler.UpdateMe)
			hospitals.PATCH("/me/", requireHospital, hospitalHandler.UpdateMe)

			hospitals.GET("/:id/", hospitalHandler.GetHospital)
			hospitals.PUT("/:id/", requireHospital, hospitalHandler.UpdateHospital)
			hospitals.PATCH("/:id/", requireHospital, hospitalHandler.UpdateHospital)
			hospitals.DELETE("/:id/", requireHospital, hospitalHandler.DeleteHospital)
		}

		services := api.Group("/services")
		{
			services.GET("/", serviceHandler.ListServices)
			// identity is resolved inside the service layer so a bad token is a 400 here
			services.POST("/", serviceHandler.CreateService)

			services.GET("/:id/", serviceHandler.GetService)
			services.PUT("/:id/", requireHospital, serviceHandler.UpdateService)
			services.PATCH("/:id/", requireHospital, serviceHandler.UpdateService)
			services.DELETE("/:id/", requireHospital, serviceHandler.DeleteService)
		}
	}

	r.NoRoute(frontend.NoRoute)

	return r
}

// apiRoot lists the browsable collections
func apiRoot(c *gin.Context) {
	base := "/api"
	c.JSON(http.StatusOK, gin.H{
		"hospitals":    base + "/hospitals/",
		"services":     base + "/services/",
		"login":        base + "/login/",
		"register":     base + "/register/",
		"mapbox-token": base + "/mapbox-token/",
	})
}
