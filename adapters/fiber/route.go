// Package fiber maps the marquee service surface onto Fiber v3 routes.
// It owns payload decoding, bearer-token extraction, and the mapping of
// core error kinds to HTTP status codes; no business rule lives here.
package fiber

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/marquee"
)

// Pinger reports persistence reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Adapter struct {
	app  *fiber.App
	ping Pinger // optional
}

var _ marquee.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// WithHealthCheck attaches a store pinger backing GET /healthz.
func (a *Adapter) WithHealthCheck(p Pinger) *Adapter {
	a.ping = p
	return a
}

func (a *Adapter) RegisterRoutes(m *marquee.Marquee) error {
	api := a.app.Group(m.BasePath)

	// Public routes
	api.Post("/accounts", handleCreateAccount(m))
	api.Post("/sessions", handleLogin(m))
	api.Get("/movies/:movieID/comments", handleListComments(m))

	// Logout authenticates inside the service, no middleware needed.
	api.Delete("/sessions", handleLogout(m))

	// Protected routes: the auth middleware runs ahead of each handler.
	auth := requireAuth(m)
	api.Get("/me", auth, handleMe(m))
	api.Patch("/me", auth, handleUpdateMe(m))
	api.Get("/watchlist", auth, handleListWatchlist(m))
	api.Put("/watchlist/:movieID", auth, handleSetWanted(m))
	api.Post("/movies/:movieID/comments", auth, handleAddComment(m))
	api.Delete("/movies/:movieID/comments/:commentID", auth, handleRemoveComment(m))

	a.app.Get("/healthz", a.handleHealth())

	return nil
}

func (a *Adapter) handleHealth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if a.ping != nil {
			if err := a.ping.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
