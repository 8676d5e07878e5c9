package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/tech_radar/internal/biz"
	"github.com/iWorld-y/tech_radar/internal/data"
	"github.com/iWorld-y/tech_radar/internal/service"
	"github.com/iWorld-y/tech_radar/pkg/engine"
)

// ProviderSet 是仪表盘服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewWarmer,
	NewRadarEngine,
	wire.Bind(new(biz.Analyzer), new(*engine.Engine)),

	// Data providers
	data.NewData,
	data.NewStore,
	data.NewCollectionRepo,

	// UseCase providers
	biz.NewCatalog,
	biz.NewRadarUseCase,

	// Service providers
	service.NewDashboardService,
)
