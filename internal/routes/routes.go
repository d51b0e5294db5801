package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/verify360/trustcheck-gateway/internal/config"
	"github.com/verify360/trustcheck-gateway/internal/handlers"
	"github.com/verify360/trustcheck-gateway/internal/metrics"
	"github.com/verify360/trustcheck-gateway/internal/middleware"
	"github.com/verify360/trustcheck-gateway/internal/session"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions *session.Store,
	lookupHandler *handlers.LookupHandler,
	reportHandler *handlers.ReportHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Search and report views are public reads
	api.Post("/search", lookupHandler.Search)
	api.Get("/reports/latest", lookupHandler.Latest)
	api.Get("/report/nip/:nip", lookupHandler.CompanyView)
	api.Get("/report/phone/:number", lookupHandler.PhoneView)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	// Logout only needs a valid token, not a live session row
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Report submission requires a live session; absence answers with the
	// login redirect before anything touches the backend
	api.Post("/reports",
		middleware.JWTProtected(cfg),
		middleware.SessionRequired(sessions),
		reportHandler.Create,
	)

	// Admin editors
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.SessionRequired(sessions),
		middleware.AdminRequired(cfg),
	)
	admin.Get("/companies", adminHandler.ListCompanies)
	admin.Get("/companies/:nip", adminHandler.GetCompany)
	admin.Patch("/companies/:nip", adminHandler.UpdateCompany)
	admin.Post("/companies/:nip/phones", adminHandler.LinkPhone)
	admin.Get("/persons", adminHandler.ListPersons)
	admin.Get("/persons/:id", adminHandler.GetPerson)
	admin.Patch("/persons/:id", adminHandler.UpdatePerson)
}
