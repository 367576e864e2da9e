package view

import (
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/order"
)

// Event names for user interactions. The field-change family is matched by
// suffix, see IsFieldChange.
const (
	EventProductClicked    = "ui:product_clicked"
	EventBasketOpened      = "ui:basket_opened"
	EventItemToggled       = "ui:item_toggled"
	EventItemRemoved       = "ui:item_removed"
	EventCheckout          = "ui:checkout"
	EventPaymentSelected   = "ui:payment_selected"
	EventDeliverySubmitted = "ui:delivery_submitted"
	EventContactsSubmitted = "ui:contacts_submitted"
	EventModalOpened       = "modal:opened"
	EventModalClosed       = "modal:closed"

	fieldChangeSuffix = ":change"
)

// Form namespaces for field-change events.
const (
	FormDelivery = "delivery"
	FormContact  = "contact"
)

// ProductClickedEvent: a product card in the grid was clicked.
type ProductClickedEvent struct {
	Product catalog.Product
}

func (ProductClickedEvent) Name() string { return EventProductClicked }

// BasketOpenedEvent: the header basket icon was clicked.
type BasketOpenedEvent struct{}

func (BasketOpenedEvent) Name() string { return EventBasketOpened }

// ItemToggledEvent: the add/remove button on the product detail view was
// clicked.
type ItemToggledEvent struct {
	Product catalog.Product
}

func (ItemToggledEvent) Name() string { return EventItemToggled }

// ItemRemovedEvent: the remove button on a basket row was clicked.
type ItemRemovedEvent struct {
	ProductID string
}

func (ItemRemovedEvent) Name() string { return EventItemRemoved }

// CheckoutEvent: the basket's checkout button was clicked.
type CheckoutEvent struct{}

func (CheckoutEvent) Name() string { return EventCheckout }

// PaymentSelectedEvent: a payment method button on the delivery form was
// clicked.
type PaymentSelectedEvent struct {
	Method order.PaymentMethod
}

func (PaymentSelectedEvent) Name() string { return EventPaymentSelected }

// FieldChangedEvent: a delivery or contact form field changed. Its name
// follows the "<form>.<field>:change" convention so a single family
// subscription can cover both forms.
type FieldChangedEvent struct {
	Form  string
	Field string
	Value string
}

func (e FieldChangedEvent) Name() string {
	return e.Form + "." + e.Field + fieldChangeSuffix
}

// IsFieldChange matches the field-change event family across both form
// namespaces.
func IsFieldChange(name string) bool {
	return strings.HasSuffix(name, fieldChangeSuffix)
}

// DeliverySubmittedEvent: the delivery form was submitted.
type DeliverySubmittedEvent struct{}

func (DeliverySubmittedEvent) Name() string { return EventDeliverySubmitted }

// ContactsSubmittedEvent: the contact form was submitted.
type ContactsSubmittedEvent struct{}

func (ContactsSubmittedEvent) Name() string { return EventContactsSubmitted }

// ModalOpenedEvent is emitted whenever content is rendered into the modal.
type ModalOpenedEvent struct{}

func (ModalOpenedEvent) Name() string { return EventModalOpened }

// ModalClosedEvent is emitted when the modal is dismissed.
type ModalClosedEvent struct{}

func (ModalClosedEvent) Name() string { return EventModalClosed }
