// Package server assembles the fiber application: views, middleware and routes.
package server

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stockroom/internal/config"
	"stockroom/internal/http/handlers"
	applog "stockroom/internal/log"
	"stockroom/web"
)

const (
	bodyLimit      = 1 << 20 // 1 MiB
	friendlyError  = "Something went wrong. Please try again."
	accessLogFmt   = `{"ts":"${time}","level":"info","action":"http.access","req_id":"${locals:requestid}","ip":"${ip}","method":"${method}","path":"${path}","status":${status},"latency":"${latency}"}` + "\n"
	templateSrcDir = "./web/templates"
)

func NewApp(deps *handlers.Deps, cfg config.Config) (*fiber.App, error) {
	engine, err := newEngine(cfg.TemplateReload)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format:     accessLogFmt,
		TimeFormat: time.RFC3339,
		Output:     applog.Writer(),
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))

	// ---------- Static assets ----------
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(static)}))

	// ---------- Dashboard pages ----------
	app.Get("/", deps.DashboardHandler.Home)
	app.Get("/products", deps.DashboardHandler.ProductsPage)
	app.Get("/categories", deps.DashboardHandler.CategoriesPage)
	app.Get("/suppliers", deps.DashboardHandler.SuppliersPage)

	// ---------- API ----------
	api := app.Group("/api")
	if cfg.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.api.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}
	api.Post("/products/add", deps.ProductHandler.Add)
	api.Get("/products/get", deps.ProductHandler.List)
	api.Get("/products/:id/movements", deps.InventoryHandler.Movements)
	api.Get("/category/get", deps.CategoryHandler.List)
	api.Post("/category/add", deps.CategoryHandler.Add)
	api.Get("/supplier/get", deps.SupplierHandler.List)
	api.Post("/supplier/add", deps.SupplierHandler.Add)

	// ---------- Health & 404 ----------
	app.Get("/healthz", deps.HealthHandler.Check)
	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	return app, nil
}

func newEngine(reload bool) (*html.Engine, error) {
	var engine *html.Engine
	if reload {
		// Development: read templates from disk on every render.
		engine = html.New(templateSrcDir, ".html")
		engine.Reload(true)
	} else {
		sub, err := fs.Sub(web.Templates, "templates")
		if err != nil {
			return nil, err
		}
		engine = html.NewFileSystem(http.FS(sub), ".html")
	}
	engine.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })
	return engine, nil
}

// errorHandler logs the cause and answers with a friendly message that never
// carries internal details: JSON under /api, the error page elsewhere.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	msg := friendlyError
	if code < fiber.StatusInternalServerError {
		msg = utils.StatusMessage(code)
		applog.Warn(c, "server.client_error", err, map[string]any{"code": code})
	} else {
		applog.Error(c, "server.error", err, map[string]any{"code": code})
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("error", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
