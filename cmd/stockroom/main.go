package main

import (
	"context"
	"io"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/urfave/cli/v2"

	"stockroom/internal/cache"
	"stockroom/internal/config"
	"stockroom/internal/http/handlers"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/server"
)

const cacheKeyPrefix = "stockroom:"

func main() {
	app := &cli.App{
		Name:   "stockroom",
		Usage:  "point-of-sale inventory backend and dashboard",
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP server (default)", Action: serve},
			{Name: "migrate", Usage: "apply database migrations and exit", Action: migrate},
			{Name: "seed", Usage: "insert the demo categories and suppliers", Action: seed},
		},
	}
	if err := app.Run(os.Args); err != nil {
		applog.Logger().WithError(err).Fatal("stockroom.exit")
	}
}

// setup loads the environment and points logging at its sinks.
func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			applog.Warn(nil, "log.file.fail", err, map[string]any{"path": cfg.LogFile})
		} else {
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}
	cfg.LogLoaded()
	c.App.Metadata["config"] = cfg
	return nil
}

func configFrom(c *cli.Context) config.Config {
	return c.App.Metadata["config"].(config.Config)
}

func serve(c *cli.Context) error {
	cfg := configFrom(c)

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := repos.SeedIfEmpty(c.Context, db); err != nil {
		_ = db.Close()
		return err
	}

	var rc *cache.Cache
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(c.Context, cfg.RedisAddr)
		if err != nil {
			// Reads still work against the store.
			applog.Warn(nil, "cache.connect.fail", err, map[string]any{"addr": cfg.RedisAddr})
		} else {
			rc = cache.New(client, cacheKeyPrefix, cfg.CacheTTL)
			applog.Printf("[cache] redis at %s, ttl %s", cfg.RedisAddr, cfg.CacheTTL)
		}
	}

	app, err := server.NewApp(handlers.NewDeps(db, cfg, rc), cfg)
	if err != nil {
		_ = db.Close()
		return err
	}

	go func() {
		applog.Printf("[http] listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			applog.Logger().WithError(err).Fatal("server.listen.fail")
		}
	}()

	wait := gfshutdown.GracefulShutdown(c.Context, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			applog.Printf("[http] draining connections")
			err := app.ShutdownWithContext(ctx)
			if cerr := rc.Close(); cerr != nil {
				applog.Warn(nil, "cache.close.fail", cerr, nil)
			}
			if cerr := db.Close(); err == nil {
				err = cerr
			}
			return err
		},
	})
	if code := <-wait; code != 0 {
		return cli.Exit("shutdown did not complete cleanly", code)
	}
	return nil
}

func migrate(c *cli.Context) error {
	db, err := repos.OpenDB(configFrom(c).DBDSN)
	if err != nil {
		return err
	}
	applog.Printf("[migrate] schema is up to date")
	return db.Close()
}

func seed(c *cli.Context) error {
	db, err := repos.OpenDB(configFrom(c).DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return repos.Seed(c.Context, db)
}
