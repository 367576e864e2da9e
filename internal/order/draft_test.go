package order

import (
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type busStub struct {
	emitted []events.Event
}

func (b *busStub) Emit(e events.Event) {
	b.emitted = append(b.emitted, e)
}

func (b *busStub) lastValidation(t *testing.T) ValidationErrors {
	t.Helper()
	for i := len(b.emitted) - 1; i >= 0; i-- {
		if evt, ok := b.emitted[i].(ValidationChangedEvent); ok {
			return evt.Errors
		}
	}
	t.Fatal("no validation event emitted")
	return nil
}

func intPtr(v int) *int { return &v }

func product(id string, price *int) catalog.Product {
	return catalog.Product{ID: id, Title: "item " + id, Price: price}
}

func TestDeliveryValidation(t *testing.T) {
	tests := []struct {
		name    string
		address string
		payment PaymentMethod
		want    ValidationErrors
	}{
		{
			name:    "empty address wins regardless of payment",
			address: "",
			payment: PaymentCash,
			want:    ValidationErrors{FieldAddress: msgInvalidAddress},
		},
		{
			name:    "whitespace-only address is invalid",
			address: "   ",
			payment: PaymentCash,
			want:    ValidationErrors{FieldAddress: msgInvalidAddress},
		},
		{
			name:    "valid address but payment unset",
			address: "123 Main St",
			payment: PaymentUnset,
			want:    ValidationErrors{FieldPayment: msgNoPayment},
		},
		{
			name:    "valid address and payment",
			address: "123 Main St",
			payment: PaymentOnline,
			want:    ValidationErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &busStub{}
			d := NewDraft(bus)
			d.SetPaymentMethod(tt.payment)
			d.SetField(FieldAddress, tt.address)

			assert.Equal(t, tt.want, bus.lastValidation(t))
			assert.Equal(t, tt.want, d.Errors())
		})
	}
}

func TestContactValidation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		phone string
		want  ValidationErrors
	}{
		{
			name:  "malformed email wins regardless of phone",
			email: "bad",
			phone: "+12345678901",
			want:  ValidationErrors{FieldEmail: msgInvalidEmail},
		},
		{
			name:  "empty email",
			email: "",
			phone: "+12345678901",
			want:  ValidationErrors{FieldEmail: msgInvalidEmail},
		},
		{
			name:  "valid email, non-numeric phone",
			email: "a@b.com",
			phone: "abc",
			want:  ValidationErrors{FieldPhone: msgInvalidPhone},
		},
		{
			name:  "valid email, phone too short",
			email: "a@b.com",
			phone: "+123",
			want:  ValidationErrors{FieldPhone: msgInvalidPhone},
		},
		{
			name:  "valid email and phone",
			email: "a@b.com",
			phone: "+12345678901",
			want:  ValidationErrors{},
		},
		{
			name:  "phone without plus",
			email: "a@b.com",
			phone: "1234567",
			want:  ValidationErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &busStub{}
			d := NewDraft(bus)
			d.SetField(FieldEmail, tt.email)
			d.SetField(FieldPhone, tt.phone)

			assert.Equal(t, tt.want, bus.lastValidation(t))
		})
	}
}

func TestValidationReplacesWholeErrorSet(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	// Delivery group fails first.
	d.SetField(FieldAddress, "")
	assert.Equal(t, ValidationErrors{FieldAddress: msgInvalidAddress}, d.Errors())

	// Touching the contact group drops the delivery error: each pass
	// replaces the entire set with only the touched group's result.
	d.SetField(FieldEmail, "a@b.com")
	d.SetField(FieldPhone, "+12345678901")
	assert.Equal(t, ValidationErrors{}, d.Errors())
}

func TestValidationAlwaysEmitsEvenIfUnchanged(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	d.SetField(FieldAddress, "123 Main St")
	d.SetField(FieldAddress, "124 Main St")

	count := 0
	for _, e := range bus.emitted {
		if _, ok := e.(ValidationChangedEvent); ok {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestAddAndRemoveItems(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	p1 := product("p1", intPtr(100))
	p2 := product("p2", intPtr(250))

	d.AddItem(p1)
	d.AddItem(p2)
	assert.Equal(t, 350, d.Total())
	assert.Equal(t, 2, d.ItemCount())
	assert.True(t, d.Contains("p1"))
	assert.False(t, d.IsEmpty())
	assert.Equal(t, []string{"p1", "p2"}, d.ItemIDs())

	d.RemoveItem("p1")
	assert.Equal(t, 150, d.Total())
	assert.Equal(t, []string{"p2"}, d.ItemIDs())
}

func TestAddItemDoesNotDuplicate(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	p := product("p1", intPtr(100))
	d.AddItem(p)
	d.AddItem(p)

	assert.Equal(t, 1, d.ItemCount())
	assert.Equal(t, 100, d.Total())
	// The change event is emitted either way.
	assert.Len(t, bus.emitted, 2)
}

func TestRemoveAbsentItemStillEmits(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	d.AddItem(product("p1", intPtr(100)))
	before := len(bus.emitted)

	d.RemoveItem("missing")
	assert.Equal(t, 100, d.Total())
	assert.Equal(t, 1, d.ItemCount())
	require.Len(t, bus.emitted, before+1)

	evt, ok := bus.emitted[len(bus.emitted)-1].(ItemsChangedEvent)
	require.True(t, ok)
	assert.Equal(t, 100, evt.Total)
}

func TestPricelessItemCountsAsZero(t *testing.T) {
	d := NewDraft(&busStub{})

	d.AddItem(product("p1", intPtr(100)))
	d.AddItem(product("p2", nil))

	assert.Equal(t, 100, d.Total())
	assert.Equal(t, 2, d.ItemCount())
}

func TestFormattedTotal(t *testing.T) {
	d := NewDraft(&busStub{})
	d.AddItem(product("p1", intPtr(100)))

	assert.Equal(t, "100 synapses", d.FormattedTotal())
}

func TestReset(t *testing.T) {
	bus := &busStub{}
	d := NewDraft(bus)

	d.SetField(FieldEmail, "a@b.com")
	d.SetField(FieldPhone, "+12345678901")
	d.SetField(FieldAddress, "123 Main St")
	d.SetPaymentMethod(PaymentCash)
	d.AddItem(product("p1", intPtr(100)))

	d.Reset()

	assert.Empty(t, d.Email())
	assert.Empty(t, d.Phone())
	assert.Empty(t, d.Address())
	assert.Equal(t, PaymentUnset, d.PaymentMethod())
	assert.True(t, d.IsEmpty())
	assert.Equal(t, 0, d.Total())
	assert.Equal(t, ValidationErrors{}, d.Errors())

	evt, ok := bus.emitted[len(bus.emitted)-1].(ItemsChangedEvent)
	require.True(t, ok)
	assert.Empty(t, evt.Items)
	assert.Equal(t, 0, evt.Total)
}

// TestTotalInvariant checks that for any sequence of add/remove calls the
// total always equals the sum of the current items' prices.
func TestTotalInvariant(t *testing.T) {
	pool := []catalog.Product{
		product("p1", intPtr(100)),
		product("p2", intPtr(250)),
		product("p3", intPtr(0)),
		product("p4", nil),
		product("p5", intPtr(9999)),
	}

	rapid.Check(t, func(rt *rapid.T) {
		d := NewDraft(&busStub{})

		ops := rapid.SliceOfN(rapid.IntRange(0, 2*len(pool)-1), 0, 100).Draw(rt, "ops")
		for _, op := range ops {
			p := pool[op%len(pool)]
			if op < len(pool) {
				d.AddItem(p)
			} else {
				d.RemoveItem(p.ID)
			}
		}

		want := 0
		seen := map[string]bool{}
		for _, item := range d.Items() {
			if seen[item.ID] {
				rt.Fatalf("duplicate item %s", item.ID)
			}
			seen[item.ID] = true
			if item.Price != nil {
				want += *item.Price
			}
		}
		if d.Total() != want {
			rt.Fatalf("total %d does not match item sum %d", d.Total(), want)
		}
	})
}
