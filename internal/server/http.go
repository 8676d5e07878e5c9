package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/tech_radar/internal/service"
	"github.com/iWorld-y/tech_radar/pkg/config"
)

func NewHTTPServer(c *config.Config, s *service.DashboardService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.Server.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.Server.HTTP.Addr))
	}
	if c.Server.HTTP.Timeout != "" {
		if d, err := time.ParseDuration(c.Server.HTTP.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	srv.HandleFunc("/", s.Index)
	srv.HandleFunc("/export", s.Export)
	srv.HandleFunc("/healthz", s.Healthz)
	srv.Handle("/metrics", promhttp.Handler())

	api := srv.Route("/api/v1")
	api.GET("/companies", s.Companies)
	api.GET("/technologies", s.Technologies)
	api.GET("/collections", s.Collections)

	return srv
}
