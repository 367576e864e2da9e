package catalog

import (
	"testing"

	"storefront/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type busStub struct {
	emitted []events.Event
}

func (b *busStub) Emit(e events.Event) {
	b.emitted = append(b.emitted, e)
}

func intPtr(v int) *int { return &v }

func TestSetProductsEmitsChanged(t *testing.T) {
	bus := &busStub{}
	m := NewModel(bus)

	products := []Product{
		{ID: "p1", Title: "Widget", Price: intPtr(100)},
		{ID: "p2", Title: "Gadget", Price: nil},
	}
	m.SetProducts(products)

	assert.Equal(t, products, m.Products())
	require.Len(t, bus.emitted, 1)
	evt, ok := bus.emitted[0].(ChangedEvent)
	require.True(t, ok)
	assert.Equal(t, products, evt.Products)
}

func TestSelectEmitsSelected(t *testing.T) {
	bus := &busStub{}
	m := NewModel(bus)

	p := Product{ID: "p1", Title: "Widget"}
	m.Select(&p)

	require.Len(t, bus.emitted, 1)
	evt, ok := bus.emitted[0].(SelectedEvent)
	require.True(t, ok)
	require.NotNil(t, evt.Product)
	assert.Equal(t, "p1", evt.Product.ID)
	assert.Equal(t, &p, m.Selected())

	// nil represents deselection and is emitted too.
	m.Select(nil)
	require.Len(t, bus.emitted, 2)
	evt, ok = bus.emitted[1].(SelectedEvent)
	require.True(t, ok)
	assert.Nil(t, evt.Product)
	assert.Nil(t, m.Selected())
}

func TestFindByID(t *testing.T) {
	m := NewModel(&busStub{})
	m.SetProducts([]Product{
		{ID: "p1", Title: "Widget"},
		{ID: "p2", Title: "Gadget"},
	})

	p, ok := m.FindByID("p2")
	require.True(t, ok)
	assert.Equal(t, "Gadget", p.Title)

	_, ok = m.FindByID("missing")
	assert.False(t, ok)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price *int
		want  string
	}{
		{name: "regular price", price: intPtr(750), want: "750 synapses"},
		{name: "zero", price: intPtr(0), want: "0 synapses"},
		{name: "priceless", price: nil, want: "priceless"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}
