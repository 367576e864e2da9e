package storefront

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/order"
	"storefront/internal/shopapi"
	"storefront/internal/view"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopAPI is the external collaborator: the catalog source and the order
// submission backend.
type ShopAPI interface {
	FetchCatalog(ctx context.Context) ([]catalog.Product, error)
	SubmitOrder(ctx context.Context, payload shopapi.OrderPayload) (shopapi.OrderResult, error)
}

// UI is the rendering sink. The coordinator supplies model snapshots; the
// implementation turns them into displayable fragments.
type UI interface {
	RenderCatalog(products []catalog.Product)
	RenderProductDetail(p catalog.Product, inOrder bool)
	RenderBasket(rows []view.BasketRow, total string, checkoutEnabled bool)
	RenderDeliveryForm(address string, payment order.PaymentMethod)
	RenderContactForm(email, phone string)
	RenderSuccess(description string)
	SetBasketCount(n int)
	SetDeliveryState(valid bool, errs string)
	SetContactState(valid bool, errs string)
	SetLocked(locked bool)
	CloseModal()
}

// Metrics are the order submission counters, registered by the caller.
type Metrics struct {
	OrdersSubmitted prometheus.Counter
	OrderFailures   prometheus.Counter
}

// Coordinator is the authoritative description of application behavior: a
// set of event-handler bindings that wire bus events to model mutations
// and model change events to view refreshes. It holds no view state of its
// own. Nothing calls a rendering method directly in response to a user
// action; all coupling goes through the bus.
type Coordinator struct {
	bus           *events.Bus
	catalog       *catalog.Model
	order         *order.Draft
	shop          ShopAPI
	ui            UI
	logger        *slog.Logger
	metrics       Metrics
	submitTimeout time.Duration
}

func NewCoordinator(
	bus *events.Bus,
	catalogModel *catalog.Model,
	draft *order.Draft,
	shop ShopAPI,
	ui UI,
	logger *slog.Logger,
	metrics Metrics,
	submitTimeout time.Duration,
) *Coordinator {
	return &Coordinator{
		bus:           bus,
		catalog:       catalogModel,
		order:         draft,
		shop:          shop,
		ui:            ui,
		logger:        logger,
		metrics:       metrics,
		submitTimeout: submitTimeout,
	}
}

// Bind registers every event binding. Call once, before any event is
// emitted.
func (c *Coordinator) Bind() {
	c.bus.Subscribe(view.EventProductClicked, c.handleProductClicked)
	c.bus.Subscribe(catalog.EventChanged, c.handleCatalogChanged)
	c.bus.Subscribe(catalog.EventSelected, c.handleProductSelected)
	c.bus.Subscribe(view.EventBasketOpened, c.handleBasketOpened)
	c.bus.Subscribe(view.EventItemToggled, c.handleItemToggled)
	c.bus.Subscribe(view.EventItemRemoved, c.handleItemRemoved)
	c.bus.Subscribe(order.EventItemsChanged, c.handleItemsChanged)
	c.bus.Subscribe(view.EventCheckout, c.handleCheckout)
	c.bus.Subscribe(view.EventPaymentSelected, c.handlePaymentSelected)
	c.bus.SubscribeMatch(view.IsFieldChange, c.handleFieldChanged)
	c.bus.Subscribe(order.EventValidationChanged, c.handleValidationChanged)
	c.bus.Subscribe(view.EventDeliverySubmitted, c.handleDeliverySubmitted)
	c.bus.Subscribe(view.EventContactsSubmitted, c.handleContactsSubmitted)
	c.bus.Subscribe(view.EventModalOpened, c.handleModalOpened)
	c.bus.Subscribe(view.EventModalClosed, c.handleModalClosed)
}

// Start performs the one-time catalog fetch. A failure is logged and
// leaves the catalog empty; there is no retry and no user-facing message.
func (c *Coordinator) Start(ctx context.Context) {
	products, err := c.shop.FetchCatalog(ctx)
	if err != nil {
		c.logger.Error("catalog fetch failed", "error", err)
		return
	}
	c.catalog.SetProducts(products)
}

func (c *Coordinator) handleProductClicked(e events.Event) {
	evt, ok := e.(view.ProductClickedEvent)
	if !ok {
		return
	}
	p := evt.Product
	c.catalog.Select(&p)
}

func (c *Coordinator) handleCatalogChanged(e events.Event) {
	evt, ok := e.(catalog.ChangedEvent)
	if !ok {
		return
	}
	c.ui.RenderCatalog(evt.Products)
}

func (c *Coordinator) handleProductSelected(e events.Event) {
	evt, ok := e.(catalog.SelectedEvent)
	if !ok {
		return
	}
	if evt.Product == nil {
		c.ui.CloseModal()
		return
	}
	c.ui.RenderProductDetail(*evt.Product, c.order.Contains(evt.Product.ID))
}

func (c *Coordinator) handleBasketOpened(e events.Event) {
	c.renderBasket()
}

func (c *Coordinator) handleItemToggled(e events.Event) {
	evt, ok := e.(view.ItemToggledEvent)
	if !ok {
		return
	}
	if c.order.Contains(evt.Product.ID) {
		c.order.RemoveItem(evt.Product.ID)
	} else {
		c.order.AddItem(evt.Product)
	}
	c.ui.CloseModal()
}

func (c *Coordinator) handleItemRemoved(e events.Event) {
	evt, ok := e.(view.ItemRemovedEvent)
	if !ok {
		return
	}
	c.order.RemoveItem(evt.ProductID)
	c.renderBasket()
}

func (c *Coordinator) handleItemsChanged(e events.Event) {
	c.ui.SetBasketCount(c.order.ItemCount())
}

func (c *Coordinator) handleCheckout(e events.Event) {
	c.ui.RenderDeliveryForm(c.order.Address(), c.order.PaymentMethod())
}

func (c *Coordinator) handlePaymentSelected(e events.Event) {
	evt, ok := e.(view.PaymentSelectedEvent)
	if !ok {
		return
	}
	c.order.SetPaymentMethod(evt.Method)
}

func (c *Coordinator) handleFieldChanged(e events.Event) {
	evt, ok := e.(view.FieldChangedEvent)
	if !ok {
		return
	}
	c.order.SetField(order.Field(evt.Field), evt.Value)
}

func (c *Coordinator) handleValidationChanged(e events.Event) {
	evt, ok := e.(order.ValidationChangedEvent)
	if !ok {
		return
	}
	errs := evt.Errors
	c.ui.SetDeliveryState(
		errs[order.FieldAddress] == "" && errs[order.FieldPayment] == "",
		joinMessages(errs[order.FieldAddress], errs[order.FieldPayment]),
	)
	c.ui.SetContactState(
		errs[order.FieldEmail] == "" && errs[order.FieldPhone] == "",
		joinMessages(errs[order.FieldPhone], errs[order.FieldEmail]),
	)
}

func (c *Coordinator) handleDeliverySubmitted(e events.Event) {
	c.ui.RenderContactForm(c.order.Email(), c.order.Phone())
}

func (c *Coordinator) handleContactsSubmitted(e events.Event) {
	payload := shopapi.OrderPayload{
		Payment: string(c.order.PaymentMethod()),
		Email:   c.order.Email(),
		Phone:   c.order.Phone(),
		Address: c.order.Address(),
		Total:   c.order.Total(),
		Items:   c.order.ItemIDs(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.submitTimeout)
	defer cancel()

	result, err := c.shop.SubmitOrder(ctx, payload)
	if err != nil {
		// The user stays on the contact form. No retry, no explicit
		// error surface.
		c.logger.Error("order submission failed", "error", err)
		c.metrics.OrderFailures.Inc()
		return
	}

	c.metrics.OrdersSubmitted.Inc()
	c.logger.Info("order submitted",
		"order_id", result.ID,
		"total", result.Total,
	)
	c.ui.RenderSuccess("Charged " + catalog.FormatPrice(&result.Total))
	c.order.Reset()
}

func (c *Coordinator) handleModalOpened(e events.Event) {
	c.ui.SetLocked(true)
}

func (c *Coordinator) handleModalClosed(e events.Event) {
	c.ui.SetLocked(false)
}

func (c *Coordinator) renderBasket() {
	items := c.order.Items()
	rows := make([]view.BasketRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, view.BasketRow{
			Index:     i + 1,
			ProductID: item.ID,
			Title:     item.Title,
			Price:     catalog.FormatPrice(item.Price),
		})
	}
	c.ui.RenderBasket(rows, c.order.FormattedTotal(), !c.order.IsEmpty())
}

func joinMessages(msgs ...string) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, "; ")
}
