package conf

import (
	"github.com/google/wire"

	"github.com/leadfoundry/leadcore/pkg/cache"
	"github.com/leadfoundry/leadcore/pkg/database"
	"github.com/leadfoundry/leadcore/pkg/httpx"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// ProviderSet exposes the config sections as injectable values.
var ProviderSet = wire.NewSet(
	ProvideLogConf,
	ProvideHttpConf,
	ProvideDatabaseConf,
	ProvideRedisConf,
)

func ProvideLogConf(c AppConfig) *log.Conf {
	return &c.Log
}

func ProvideHttpConf(c AppConfig) httpx.Http {
	return c.Http
}

func ProvideDatabaseConf(c AppConfig) database.Database {
	return c.Database
}

func ProvideRedisConf(c AppConfig) cache.Redis {
	return c.Redis
}
