package main

import (
	"context"
	"flag"

	"github.com/leadfoundry/leadcore/internal/engine/conf"
	"github.com/leadfoundry/leadcore/internal/engine/core/resolve"
	mcrepo "github.com/leadfoundry/leadcore/internal/engine/repo/moduleconfig"
	acrepo "github.com/leadfoundry/leadcore/internal/engine/repo/accesscontrol"
	leadrepo "github.com/leadfoundry/leadcore/internal/engine/repo/lead"
	permrepo "github.com/leadfoundry/leadcore/internal/engine/repo/permission"
	"github.com/leadfoundry/leadcore/internal/engine/router"
	"github.com/leadfoundry/leadcore/internal/engine/service"
	"github.com/leadfoundry/leadcore/pkg/cache"
	"github.com/leadfoundry/leadcore/pkg/ctx"
	"github.com/leadfoundry/leadcore/pkg/database"
	"github.com/leadfoundry/leadcore/pkg/httpx"
	"github.com/leadfoundry/leadcore/pkg/log"
)

var (
	configFile string
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
}

func main() {
	flag.Parse()

	appConf := conf.NewConf(configFile)

	log.MustInit(&appConf.Log)

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		log.Fatalf("failed to init redis: %v", err)
	}
	remoteCache := cache.NewRedisCache(redisClient)
	localCache := cache.NewFastCache(cache.FastCacheConfig{})

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	appCtx := ctx.NewContext(context.Background(), db, remoteCache, localCache, log.GetLogger())

	// config store + resolution chain
	configRepo := mcrepo.NewModuleConfigRepo(appCtx)
	resolver := resolve.NewResolver(configRepo)
	cachedResolver := resolve.NewCachedResolver(resolver, appCtx.Cache, appCtx.Local)

	// services
	configSvc := service.NewModuleConfigService(configRepo, cachedResolver)
	accessSvc := service.NewAccessControlService(acrepo.NewAccessControlRepo(appCtx))
	ruleSvc := service.NewPermissionRuleService(permrepo.NewPermissionRuleRepo(appCtx))
	authSvc := service.NewAuthService(acrepo.NewAccessControlRepo(appCtx), ruleSvc)
	leadSvc := service.NewLeadService(leadrepo.NewLeadRepo(appCtx), configSvc)

	route := router.NewRouter(&appConf.Http, leadSvc, configSvc, accessSvc, ruleSvc, authSvc)
	app := route.Router()

	shutdown := httpx.Serve(app, appConf.Http)
	shutdown()

	_ = redisClient.Close()
}
