// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/order"
)

// Order channels reported to metrics.
const (
	channelAPI      = "api"
	channelRedirect = "redirect"
)

// maxOrderForm caps the form-encoded order body.
const maxOrderForm = 16 << 10

// OrderFormResponse is what the order modal needs before the customer types.
type OrderFormResponse struct {
	MinDate string            `json:"min_date"`
	Related []catalog.Product `json:"related"`
}

// OrderMinDate handles GET /api/v1/products/{id}/order/min-date
func (h *Handler) OrderMinDate(w http.ResponseWriter, r *http.Request) {
	product, ok := h.requireProduct(w, r)
	if !ok {
		return
	}

	related, err := h.catalog.Related(r.Context(), product.ID, catalog.RelatedInModal)
	if err != nil {
		slog.WarnContext(r.Context(), "loading related products", "error", err, "product_id", product.ID)
		related = []catalog.Product{}
	}

	WriteSuccess(w, OrderFormResponse{
		MinDate: order.MinDeliveryDate(h.localNow()),
		Related: related,
	}, nil)
}

// CreateOrderIntent handles POST /api/v1/products/{id}/order
// Public: composes the order message and returns the deep link.
func (h *Handler) CreateOrderIntent(w http.ResponseWriter, r *http.Request) {
	product, ok := h.requireProduct(w, r)
	if !ok {
		return
	}

	var form order.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	intent, ok := h.composeIntent(w, r, product, form)
	if !ok {
		return
	}
	h.metrics.RecordOrderIntent(r.UserAgent(), channelAPI)
	WriteSuccess(w, intent, nil)
}

// OrderRedirect handles POST /order/{id}
// Public: plain form submission that redirects to the deep link.
func (h *Handler) OrderRedirect(w http.ResponseWriter, r *http.Request) {
	product, ok := h.requireProduct(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxOrderForm)
	if err := r.ParseForm(); err != nil {
		WriteBadRequest(w, "Invalid form data", nil)
		return
	}

	form := order.Form{
		DeliveryDate: r.PostFormValue("delivery_date"),
		Recipient:    r.PostFormValue("recipient"),
		CardMessage:  r.PostFormValue("card_message"),
	}
	intent, ok := h.composeIntent(w, r, product, form)
	if !ok {
		return
	}
	h.metrics.RecordOrderIntent(r.UserAgent(), channelRedirect)
	http.Redirect(w, r, intent.URL, http.StatusSeeOther)
}

// composeIntent runs the composer for one request.
// Returns false if the form was rejected (response already written).
func (h *Handler) composeIntent(w http.ResponseWriter, r *http.Request, p catalog.Product, form order.Form) (order.Intent, bool) {
	item := order.Item{ID: p.ID, Name: p.Name, Price: p.Price}
	intent, err := order.Compose(item, form, h.settings.Current(r.Context()), h.localNow())
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			WriteValidationError(w, verr.Fields)
			return order.Intent{}, false
		}
		slog.ErrorContext(r.Context(), "composing order intent", "error", err, "product_id", p.ID)
		WriteInternalError(w, "Failed to compose order")
		return order.Intent{}, false
	}

	slog.InfoContext(r.Context(), "order intent composed", "product_id", p.ID, "delivery_date", form.DeliveryDate)
	return intent, true
}

// localNow is the current time in the store's time zone.
func (h *Handler) localNow() time.Time {
	return h.now().In(h.loc)
}
