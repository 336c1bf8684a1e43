// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package order composes WhatsApp order intents: a fixed-template message
// about one product and a deep link that opens a chat with the store.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tharabouqet/florist/internal/settings"
)

// LeadDays is the minimum number of days between ordering and delivery.
const LeadDays = 3

// DateLayout is the delivery date format.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid order state transition")

	// ErrDeliveryTooSoon is returned for dates earlier than MinDeliveryDate.
	ErrDeliveryTooSoon = errors.New("delivery date is before the minimum lead time")
)

// State is the composer lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Item is the product an order intent is about.
type Item struct {
	ID    string
	Name  string
	Price int64
}

// Form holds the customer's input.
type Form struct {
	DeliveryDate string `json:"delivery_date"`
	Recipient    string `json:"recipient"`
	CardMessage  string `json:"card_message"`
}

// Intent is the composed message and the link that carries it.
type Intent struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// ValidationError lists field-level problems with a Form.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range []string{"delivery_date", "recipient"} {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "invalid order form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.cause }

// MinDeliveryDate returns the earliest accepted delivery date for an order
// placed at now, in now's location.
func MinDeliveryDate(now time.Time) string {
	return now.AddDate(0, 0, LeadDays).Format(DateLayout)
}

// Validate checks required fields and the lead time.
func (f Form) Validate(now time.Time) error {
	fields := make(map[string]string)
	var cause error

	date := strings.TrimSpace(f.DeliveryDate)
	switch {
	case date == "":
		fields["delivery_date"] = "Delivery date is required"
	default:
		d, err := time.ParseInLocation(DateLayout, date, now.Location())
		if err != nil {
			fields["delivery_date"] = "Delivery date must be YYYY-MM-DD"
			break
		}
		if d.Format(DateLayout) < MinDeliveryDate(now) {
			fields["delivery_date"] = fmt.Sprintf("Delivery date must be on or after %s", MinDeliveryDate(now))
			cause = ErrDeliveryTooSoon
		}
	}

	if strings.TrimSpace(f.Recipient) == "" {
		fields["recipient"] = "Recipient and address are required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields, cause: cause}
	}
	return nil
}

// Composer is the order modal state machine:
// Closed -> Open -> Submitted -> Closed. It is not safe for concurrent use.
type Composer struct {
	state State
	item  Item
	form  Form
}

// NewComposer returns a closed composer.
func NewComposer() *Composer {
	return &Composer{}
}

// State returns the current state.
func (c *Composer) State() State { return c.state }

// Item returns the bound product; zero when closed.
func (c *Composer) Item() Item { return c.item }

// Open binds a product. Only allowed from Closed.
func (c *Composer) Open(item Item) error {
	if c.state != StateClosed {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, c.state)
	}
	c.item = item
	c.form = Form{}
	c.state = StateOpen
	return nil
}

// Submit validates form and composes the intent using the store's contact
// number and name. Only allowed from Open; on validation failure the
// composer stays Open with the form kept.
func (c *Composer) Submit(form Form, vals settings.Values, now time.Time) (Intent, error) {
	if c.state != StateOpen {
		return Intent{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, c.state)
	}
	c.form = form
	if err := form.Validate(now); err != nil {
		return Intent{}, err
	}

	msg := ComposeMessage(vals.StoreName(), c.item, form)
	intent := Intent{
		URL:     DeepLink(vals.WhatsAppNumber(), msg),
		Message: msg,
	}
	c.state = StateSubmitted
	return intent, nil
}

// Close returns to Closed from any state and clears the form.
func (c *Composer) Close() {
	c.state = StateClosed
	c.item = Item{}
	c.form = Form{}
}

// Compose runs a full Open, Submit, Close cycle for one request.
func Compose(item Item, form Form, vals settings.Values, now time.Time) (Intent, error) {
	c := NewComposer()
	if err := c.Open(item); err != nil {
		return Intent{}, err
	}
	defer c.Close()
	return c.Submit(form, vals, now)
}
