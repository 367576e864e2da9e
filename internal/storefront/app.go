package storefront

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/order"
	"storefront/internal/view"

	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the process-wide collaborators shared by every session.
type Deps struct {
	Shop          ShopAPI
	Logger        *slog.Logger
	BusEvents     *prometheus.CounterVec
	Metrics       Metrics
	SubmitTimeout time.Duration
}

// App is one session's storefront: an explicitly constructed bus, models,
// page and coordinator. Nothing here is a process-wide singleton; tests
// and sessions build isolated instances.
type App struct {
	Bus     *events.Bus
	Catalog *catalog.Model
	Order   *order.Draft
	Page    *view.Page

	coordinator *Coordinator
}

func NewApp(deps Deps) (*App, error) {
	bus := events.New(deps.Logger, deps.BusEvents)
	catalogModel := catalog.NewModel(bus)
	draft := order.NewDraft(bus)

	page, err := view.NewPage(bus, deps.Logger)
	if err != nil {
		return nil, err
	}

	coordinator := NewCoordinator(
		bus,
		catalogModel,
		draft,
		deps.Shop,
		page,
		deps.Logger,
		deps.Metrics,
		deps.SubmitTimeout,
	)
	coordinator.Bind()

	return &App{
		Bus:         bus,
		Catalog:     catalogModel,
		Order:       draft,
		Page:        page,
		coordinator: coordinator,
	}, nil
}

// Start runs the session's one-time catalog fetch.
func (a *App) Start(ctx context.Context) {
	a.coordinator.Start(ctx)
}
