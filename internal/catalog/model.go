package catalog

import "storefront/internal/events"

const (
	EventChanged  = "catalog:changed"
	EventSelected = "catalog:selected"
)

// ChangedEvent is emitted after the product list is replaced.
type ChangedEvent struct {
	Products []Product
}

func (ChangedEvent) Name() string { return EventChanged }

// SelectedEvent is emitted after the inspected product changes. A nil
// Product represents deselection (detail view closed).
type SelectedEvent struct {
	Product *Product
}

func (SelectedEvent) Name() string { return EventSelected }

// Model holds the product list and the currently inspected product. It is
// a pure state holder plus notifier: no validation, all coupling through
// emitted events.
type Model struct {
	bus      events.Emitter
	products []Product
	selected *Product
}

func NewModel(bus events.Emitter) *Model {
	return &Model{bus: bus}
}

// SetProducts replaces the catalog with the fetched list, preserving
// server order, and emits ChangedEvent.
func (m *Model) SetProducts(products []Product) {
	m.products = products
	m.bus.Emit(ChangedEvent{Products: products})
}

// Select replaces the inspected product and emits SelectedEvent. nil is
// allowed and represents closing the detail view.
func (m *Model) Select(p *Product) {
	m.selected = p
	m.bus.Emit(SelectedEvent{Product: p})
}

func (m *Model) Products() []Product {
	return m.products
}

func (m *Model) Selected() *Product {
	return m.selected
}

// FindByID returns the product with the given id from the current catalog.
func (m *Model) FindByID(id string) (Product, bool) {
	for _, p := range m.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
