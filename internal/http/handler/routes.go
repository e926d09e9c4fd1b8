package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ldapsync/internal/fiscal"
	"ldapsync/internal/service"
)

// Deps are the collaborators the routes are served from.
type Deps struct {
	DB       Pinger
	Groups   service.GroupService
	Sync     service.SyncService
	Calendar *fiscal.Calendar
	// Gatherer backs /metrics; nil skips the route.
	Gatherer prometheus.Gatherer
	// Recursive is the default for sync and resolve requests that do not say.
	Recursive bool
	Now       func() time.Time
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	groups := app.Group("/groups")
	groups.Get("/", ListGroups(d.Groups))
	groups.Post("/sync", SyncGroups(d.Sync, d.Recursive))
	groups.Get("/:id", GetGroup(d.Groups))
	groups.Get("/:id/members", ListGroupMembers(d.Groups))

	app.Get("/directory/members", ResolveMembers(d.Sync, d.Recursive))

	runs := app.Group("/sync/runs")
	runs.Get("/", ListRuns(d.Groups))
	runs.Get("/:id", GetRun(d.Groups))
	runs.Get("/:id/report", GetRunReport(d.Groups))

	app.Get("/fiscal", DescribeFiscal(d.Calendar, d.Now))
}
