package server

import (
	"fmt"
	"net/http"

	"bioserver/dao/query"
	"bioserver/metrics"
	"bioserver/middleware"
	"bioserver/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterConfig carries every dependency the routes need.
type RouterConfig struct {
	ServiceName    string
	AllowOrigins   []string
	MetricsEnabled bool
	MetricsPath    string

	Query  *query.Query
	Tokens middleware.TokenChecker
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Query == nil || cfg.Tokens == nil {
		return nil, fmt.Errorf("router: store and token checker are required")
	}
	if err := service.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowOrigins))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(cfg.MetricsPath))
		r.GET(cfg.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	q := cfg.Query
	protected := r.Group("/", middleware.RequireAuth(cfg.Tokens))
	{
		service.NewAnnotationService(q.Annotations).Register(protected)
		service.NewModuleService(q.Modules).Register(protected)
		service.NewParameterService(q.Parameters).Register(protected)
		service.NewSubpartService(q.Parts).Register(protected)
		service.NewSequenceService(q.Sequences).Register(protected)
		service.NewFeatureService(q.Features).Register(protected)
		service.NewAssemblyService(q.Assemblies).Register(protected)
		service.NewDeviceService(q).Register(protected)
	}
	return r, nil
}
