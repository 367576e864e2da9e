package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/order"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type modalKind int

const (
	modalNone modalKind = iota
	modalProduct
	modalBasket
	modalDelivery
	modalContact
	modalSuccess
)

// BasketRow is one line of the basket view. Display indexes are 1-based
// and assigned by the coordinator in current order.
type BasketRow struct {
	Index     int
	ProductID string
	Title     string
	Price     string
}

type productCard struct {
	ID       string
	Category string
	Title    string
	Image    string
	Price    string
}

type productDetail struct {
	productCard
	Description    string
	ButtonLabel    string
	ButtonDisabled bool
}

type basketData struct {
	Rows            []BasketRow
	Total           string
	CheckoutEnabled bool
}

type deliveryForm struct {
	Address       string
	PaymentOnline bool
	PaymentCash   bool
	Valid         bool
	Errors        string
}

type contactForm struct {
	Email  string
	Phone  string
	Valid  bool
	Errors string
}

type successData struct {
	Description string
}

// Page renders the storefront as HTML fragments and tracks which fragment
// currently occupies the modal, so form state updates can re-render it in
// place. It emits modal events on open and close; the scroll lock itself
// is applied by the coordinator in response to those events.
type Page struct {
	bus    events.Emitter
	logger *slog.Logger
	tmpl   *template.Template

	gallery     template.HTML
	modal       template.HTML
	kind        modalKind
	basketCount int
	locked      bool

	delivery deliveryForm
	contact  contactForm
}

// NewPage parses the embedded templates. A parse failure is a broken
// deployment and surfaces as a startup error.
func NewPage(bus events.Emitter, logger *slog.Logger) (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Page{
		bus:    bus,
		logger: logger,
		tmpl:   tmpl,
	}, nil
}

// RenderCatalog replaces the product grid.
func (p *Page) RenderCatalog(products []catalog.Product) {
	cards := make([]productCard, 0, len(products))
	for _, pr := range products {
		cards = append(cards, newProductCard(pr))
	}
	p.gallery = p.fragment("gallery.tmpl", cards)
}

// RenderProductDetail opens the detail view in the modal. The add/remove
// button reflects the product's membership in the order and is disabled
// for priceless products.
func (p *Page) RenderProductDetail(pr catalog.Product, inOrder bool) {
	label := "Add to basket"
	if inOrder {
		label = "Remove from basket"
	}
	detail := productDetail{
		productCard:    newProductCard(pr),
		Description:    pr.Description,
		ButtonLabel:    label,
		ButtonDisabled: pr.Priceless(),
	}
	p.openModal(modalProduct, p.fragment("detail.tmpl", detail))
}

// RenderBasket opens the basket view in the modal.
func (p *Page) RenderBasket(rows []BasketRow, total string, checkoutEnabled bool) {
	data := basketData{
		Rows:            rows,
		Total:           total,
		CheckoutEnabled: checkoutEnabled,
	}
	p.openModal(modalBasket, p.fragment("basket.tmpl", data))
}

// RenderDeliveryForm opens the delivery step pre-filled from the order
// draft. The form starts disabled with no messages until the first
// validation pass.
func (p *Page) RenderDeliveryForm(address string, payment order.PaymentMethod) {
	p.delivery = deliveryForm{
		Address:       address,
		PaymentOnline: payment == order.PaymentOnline,
		PaymentCash:   payment == order.PaymentCash,
	}
	p.openModal(modalDelivery, p.fragment("delivery.tmpl", p.delivery))
}

// RenderContactForm opens the contact step pre-filled from the order draft.
func (p *Page) RenderContactForm(email, phone string) {
	p.contact = contactForm{
		Email: email,
		Phone: phone,
	}
	p.openModal(modalContact, p.fragment("contact.tmpl", p.contact))
}

// RenderSuccess opens the confirmation view.
func (p *Page) RenderSuccess(description string) {
	p.openModal(modalSuccess, p.fragment("success.tmpl", successData{Description: description}))
}

// SetBasketCount updates the header badge.
func (p *Page) SetBasketCount(n int) {
	p.basketCount = n
}

// SetDeliveryState updates the delivery form's enablement and messages,
// re-rendering it if it is the open modal.
func (p *Page) SetDeliveryState(valid bool, errs string) {
	p.delivery.Valid = valid
	p.delivery.Errors = errs
	if p.kind == modalDelivery {
		p.modal = p.fragment("delivery.tmpl", p.delivery)
	}
}

// SetContactState updates the contact form's enablement and messages,
// re-rendering it if it is the open modal.
func (p *Page) SetContactState(valid bool, errs string) {
	p.contact.Valid = valid
	p.contact.Errors = errs
	if p.kind == modalContact {
		p.modal = p.fragment("contact.tmpl", p.contact)
	}
}

// SetLocked toggles the background scroll lock.
func (p *Page) SetLocked(locked bool) {
	p.locked = locked
}

// CloseModal clears the modal and emits the close event. Closing an
// already closed modal is a no-op.
func (p *Page) CloseModal() {
	if p.kind == modalNone {
		return
	}
	p.kind = modalNone
	p.modal = ""
	p.bus.Emit(ModalClosedEvent{})
}

// WriteTo renders the whole page.
func (p *Page) WriteTo(w io.Writer) error {
	data := struct {
		Gallery     template.HTML
		Modal       template.HTML
		ModalOpen   bool
		BasketCount int
		Locked      bool
	}{
		Gallery:     p.gallery,
		Modal:       p.modal,
		ModalOpen:   p.kind != modalNone,
		BasketCount: p.basketCount,
		Locked:      p.locked,
	}
	if err := p.tmpl.ExecuteTemplate(w, "layout.tmpl", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// openModal swaps in new modal content. The open event fires on every
// render, mirroring a modal that re-announces itself when its content is
// replaced.
func (p *Page) openModal(kind modalKind, content template.HTML) {
	p.kind = kind
	p.modal = content
	p.bus.Emit(ModalOpenedEvent{})
}

func (p *Page) fragment(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("render fragment", "template", name, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

func newProductCard(pr catalog.Product) productCard {
	return productCard{
		ID:       pr.ID,
		Category: pr.Category,
		Title:    pr.Title,
		Image:    pr.Image,
		Price:    catalog.FormatPrice(pr.Price),
	}
}
