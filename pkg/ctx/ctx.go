package ctx

import (
	"context"

	"github.com/leadfoundry/leadcore/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context is the global application context handed to repos, services and
// handlers. It bundles the shared infrastructure handles.
type Context struct {
	DB    *gorm.DB
	Cache cache.ICache
	Local *cache.FastCache
	Ctx   context.Context
	Log   *zap.SugaredLogger
}

func NewContext(ctx context.Context, db *gorm.DB, c cache.ICache, local *cache.FastCache, log *zap.SugaredLogger) *Context {
	return &Context{
		DB:    db,
		Cache: c,
		Local: local,
		Ctx:   ctx,
		Log:   log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

// Database satisfies database.IDatabase so the context can be handed
// directly to the repositories.
func (c *Context) Database() *gorm.DB {
	return c.DB
}

func (c *Context) SetDB(db *gorm.DB) {
	c.DB = db
}

func (c *Context) GetDB() *gorm.DB {
	return c.DB
}
