package order

import (
	"regexp"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/events"
)

const (
	EventItemsChanged      = "order:items_changed"
	EventValidationChanged = "order:validation_changed"
)

// PaymentMethod is how the order will be paid for. The zero value means no
// method has been chosen yet.
type PaymentMethod string

const (
	PaymentUnset  PaymentMethod = ""
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// Field names a single order form field.
type Field string

const (
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldPayment Field = "payment"
)

// ValidationErrors maps a field to a human-readable message. At most one
// message per validation group is populated at a time.
type ValidationErrors map[Field]string

const (
	msgInvalidAddress = "invalid delivery address"
	msgNoPayment      = "no payment method chosen"
	msgInvalidEmail   = "invalid email"
	msgInvalidPhone   = "invalid phone number"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ItemsChangedEvent is emitted after every item mutation, including no-op
// removals and Reset.
type ItemsChangedEvent struct {
	Items []catalog.Product
	Total int
}

func (ItemsChangedEvent) Name() string { return EventItemsChanged }

// ValidationChangedEvent carries the full current error set after every
// validation pass, even if it did not change, so subscribers can refresh
// form state uniformly.
type ValidationChangedEvent struct {
	Errors ValidationErrors
}

func (ValidationChangedEvent) Name() string { return EventValidationChanged }

// Draft is the order being built: contact fields, payment method, selected
// items and the derived total. Validation runs in two independent groups,
// delivery {address, payment} and contact {email, phone}; touching any
// field re-evaluates only the group that owns it and replaces the entire
// error set with that group's result.
type Draft struct {
	bus     events.Emitter
	email   string
	phone   string
	address string
	payment PaymentMethod
	items   []catalog.Product
	total   int
	errors  ValidationErrors
}

func NewDraft(bus events.Emitter) *Draft {
	return &Draft{
		bus:    bus,
		errors: ValidationErrors{},
	}
}

// SetField stores an email, phone or address value and validates the group
// the field belongs to. Other fields are ignored; payment goes through
// SetPaymentMethod.
func (d *Draft) SetField(field Field, value string) {
	switch field {
	case FieldEmail:
		d.email = value
		d.validateContact()
	case FieldPhone:
		d.phone = value
		d.validateContact()
	case FieldAddress:
		d.address = value
		d.validateDelivery()
	}
}

// SetPaymentMethod stores the payment method and validates the delivery
// group, the same group the address belongs to.
func (d *Draft) SetPaymentMethod(method PaymentMethod) {
	d.payment = method
	d.validateDelivery()
}

// AddItem appends the product to the order and recomputes the total. A
// product already in the order is not duplicated; the change event is
// emitted either way.
func (d *Draft) AddItem(p catalog.Product) {
	if !d.Contains(p.ID) {
		d.items = append(d.items, p)
	}
	d.updateTotal()
	d.emitItemsChanged()
}

// RemoveItem removes the product with the given id. Removing an id that is
// not in the order leaves the items unchanged but still emits the change
// event.
func (d *Draft) RemoveItem(id string) {
	kept := d.items[:0]
	for _, item := range d.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	d.items = kept
	d.updateTotal()
	d.emitItemsChanged()
}

// Reset returns the draft to its defaults after a successful submission.
func (d *Draft) Reset() {
	d.email = ""
	d.phone = ""
	d.address = ""
	d.payment = PaymentUnset
	d.items = nil
	d.total = 0
	d.errors = ValidationErrors{}
	d.emitItemsChanged()
}

func (d *Draft) updateTotal() {
	total := 0
	for _, item := range d.items {
		if item.Price != nil {
			total += *item.Price
		}
	}
	d.total = total
}

func (d *Draft) emitItemsChanged() {
	d.bus.Emit(ItemsChangedEvent{Items: d.Items(), Total: d.total})
}

// validateDelivery checks the {address, payment} group. The address error
// takes precedence: payment is only checked once the address passes, so at
// most one of the two keys is populated.
func (d *Draft) validateDelivery() {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.address) == "" {
		errs[FieldAddress] = msgInvalidAddress
	} else if d.payment == PaymentUnset {
		errs[FieldPayment] = msgNoPayment
	}
	d.replaceErrors(errs)
}

// validateContact checks the {email, phone} group with the same
// short-circuit precedence: phone is only checked once the email passes.
func (d *Draft) validateContact() {
	errs := ValidationErrors{}
	if !emailPattern.MatchString(d.email) {
		errs[FieldEmail] = msgInvalidEmail
	} else if !phonePattern.MatchString(d.phone) {
		errs[FieldPhone] = msgInvalidPhone
	}
	d.replaceErrors(errs)
}

// replaceErrors swaps in the touched group's result wholesale. An error
// from the other group left over from a previous pass is dropped here;
// the form enablement logic downstream relies on that, so it stays.
func (d *Draft) replaceErrors(errs ValidationErrors) {
	d.errors = errs
	d.bus.Emit(ValidationChangedEvent{Errors: d.Errors()})
}

func (d *Draft) Email() string { return d.email }

func (d *Draft) Phone() string { return d.phone }

func (d *Draft) Address() string { return d.address }

func (d *Draft) PaymentMethod() PaymentMethod { return d.payment }

// Items returns a copy of the order's items in the order they were added.
func (d *Draft) Items() []catalog.Product {
	items := make([]catalog.Product, len(d.items))
	copy(items, d.items)
	return items
}

// ItemIDs returns the item identifiers for the submission payload.
func (d *Draft) ItemIDs() []string {
	ids := make([]string, 0, len(d.items))
	for _, item := range d.items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (d *Draft) Total() int { return d.total }

// FormattedTotal renders the total with the currency suffix.
func (d *Draft) FormattedTotal() string {
	return catalog.FormatPrice(&d.total)
}

func (d *Draft) ItemCount() int { return len(d.items) }

func (d *Draft) IsEmpty() bool { return len(d.items) == 0 }

// Contains reports whether a product with the given id is in the order.
func (d *Draft) Contains(id string) bool {
	for _, item := range d.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Errors returns a copy of the current validation error set.
func (d *Draft) Errors() ValidationErrors {
	errs := make(ValidationErrors, len(d.errors))
	for field, msg := range d.errors {
		errs[field] = msg
	}
	return errs
}
