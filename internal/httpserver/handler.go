package httpserver

import (
	"bytes"
	"log/slog"
	"net/http"

	"storefront/internal/order"
	"storefront/internal/view"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "storefront_session"

// Handler translates browser interactions into events on the session's
// bus. Every POST emits and redirects back to the page; the view state the
// coordinator produced is what GET / renders.
type Handler struct {
	store  *SessionStore
	logger *slog.Logger
}

func NewHandler(store *SessionStore, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Index renders the full page for the current session.
func (h *Handler) Index(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var buf bytes.Buffer
	var err error
	sess.Do(func() {
		err = sess.App.Page.WriteTo(&buf)
	})
	if err != nil {
		h.logger.Error("render page", "session_id", sess.ID, "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// SelectProduct handles a product card click.
func (h *Handler) SelectProduct(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		product, ok := sess.App.Catalog.FindByID(c.Param("id"))
		if !ok {
			// Stale page referencing a product that is no longer in
			// the catalog.
			return
		}
		sess.App.Bus.Emit(view.ProductClickedEvent{Product: product})
	})
}

// OpenBasket handles the header basket icon.
func (h *Handler) OpenBasket(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Bus.Emit(view.BasketOpenedEvent{})
	})
}

// ToggleBasketItem handles the add/remove button on the product detail
// view. Priceless products are rejected here, mirroring the disabled
// button.
func (h *Handler) ToggleBasketItem(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		selected := sess.App.Catalog.Selected()
		if selected == nil || selected.Priceless() {
			return
		}
		sess.App.Bus.Emit(view.ItemToggledEvent{Product: *selected})
	})
}

// RemoveBasketItem handles the remove button on a basket row.
func (h *Handler) RemoveBasketItem(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Bus.Emit(view.ItemRemovedEvent{ProductID: c.Param("id")})
	})
}

// Checkout handles the basket's checkout button.
func (h *Handler) Checkout(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Bus.Emit(view.CheckoutEvent{})
	})
}

// SelectPayment handles the delivery form's payment method buttons.
func (h *Handler) SelectPayment(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		method := order.PaymentMethod(c.PostForm("payment"))
		if method != order.PaymentOnline && method != order.PaymentCash {
			return
		}
		sess.App.Bus.Emit(view.PaymentSelectedEvent{Method: method})
	})
}

// ChangeField handles a delivery or contact form field edit.
func (h *Handler) ChangeField(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		form := c.PostForm("form")
		field := c.PostForm("field")
		if !validFormField(form, field) {
			return
		}
		sess.App.Bus.Emit(view.FieldChangedEvent{
			Form:  form,
			Field: field,
			Value: c.PostForm("value"),
		})
	})
}

// SubmitDelivery advances from the delivery step to the contact step.
func (h *Handler) SubmitDelivery(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Bus.Emit(view.DeliverySubmittedEvent{})
	})
}

// SubmitContacts submits the order. There is deliberately no guard against
// re-submitting while a submission is in flight.
func (h *Handler) SubmitContacts(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Bus.Emit(view.ContactsSubmittedEvent{})
	})
}

// CloseModal dismisses whatever the modal shows.
func (h *Handler) CloseModal(c *gin.Context) {
	h.emit(c, func(sess *Session) {
		sess.App.Page.CloseModal()
	})
}

func (h *Handler) emit(c *gin.Context, fn func(sess *Session)) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	sess.Do(func() {
		fn(sess)
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// session resolves the request's session from its cookie, creating one on
// first contact. Returns nil after writing an error response.
func (h *Handler) session(c *gin.Context) *Session {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if sess, ok := h.store.Get(id); ok {
			return sess
		}
	}

	sess, err := h.store.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("create session", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return nil
	}
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	return sess
}

func validFormField(form, field string) bool {
	switch form {
	case view.FormDelivery:
		return field == string(order.FieldAddress)
	case view.FormContact:
		return field == string(order.FieldEmail) || field == string(order.FieldPhone)
	default:
		return false
	}
}
