package cmd

import (
	"context"
	"io"
	"time"

	"github.com/jimezsa/jobtracker/internal/catalog"
	"github.com/jimezsa/jobtracker/internal/config"
	"github.com/jimezsa/jobtracker/internal/network"
	"github.com/jimezsa/jobtracker/internal/store"
	"github.com/jimezsa/jobtracker/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Ctx is cancelled on SIGINT/SIGTERM.
	Ctx          context.Context
	StoreOptions store.Options
	// CatalogSource is "" or "builtin" for the embedded catalog.
	CatalogSource string
	// Now overrides the clock for digest generation; nil means time.Now.
	Now func() time.Time

	kv       store.Store
	notifier store.Notifier
	catalog  *catalog.Catalog
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Store opens the configured backend on first use.
func (c *Context) Store() (store.Store, error) {
	if c.kv != nil {
		return c.kv, nil
	}
	kv, notifier, err := store.Open(c.context(), c.StoreOptions)
	if err != nil {
		return nil, err
	}
	c.kv = kv
	c.notifier = notifier
	c.Logger.Debug().Str("backend", c.StoreOptions.Backend).Msg("store opened")
	return kv, nil
}

// Notifier returns the change feed of the opened store, or nil when the
// backend has none.
func (c *Context) Notifier() (store.Notifier, error) {
	if _, err := c.Store(); err != nil {
		return nil, err
	}
	return c.notifier, nil
}

// Catalog loads the configured catalog on first use.
func (c *Context) Catalog() (*catalog.Catalog, error) {
	if c.catalog != nil {
		return c.catalog, nil
	}
	cat, err := catalog.Load(c.context(), c.CatalogSource, c.catalogOptions())
	if err != nil {
		return nil, err
	}
	c.catalog = cat
	return cat, nil
}

func (c *Context) catalogOptions() catalog.Options {
	return catalog.Options{
		Logger: c.Logger,
		Network: network.Options{
			Timeout: c.Config.Timeout(),
			Proxies: c.Config.Proxies,
		},
	}
}

// Close releases the store, if one was opened.
func (c *Context) Close() error {
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	c.notifier = nil
	return err
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
