// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/store"
)

// Promo defaults.
const (
	DefaultButtonText = "Lihat Promo"
	DefaultButtonLink = "#products"
	DefaultRating     = 5
)

var plainText = bluemonday.StrictPolicy()

// cleanText trims s and strips any markup.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(strings.TrimSpace(s))))
}

// ProductForm is the product editor payload. DiscountPercent is a calculator
// input: when sent, it overwrites Price and Discount. CurrentPercent shows the
// stored row's discount and is never read back.
type ProductForm struct {
	Name            string   `json:"name"`
	Price           int64    `json:"price"`
	OriginalPrice   *int64   `json:"original_price,omitempty"`
	DiscountPercent *int     `json:"discount_percent,omitempty"`
	CurrentPercent  int      `json:"current_percent,omitempty"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"image_url"`
	Images          []string `json:"images"`
	Description     string   `json:"description"`
	Discount        string   `json:"discount"`
}

// ProductFormFrom fills the editor from an existing product.
func ProductFormFrom(p store.Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageUrl,
		Images:      p.ImageList(),
		Description: p.Description,
		Discount:    p.Discount,
	}
	if len(f.Images) == 0 && f.ImageURL != "" {
		f.Images = []string{f.ImageURL}
	}
	if p.OriginalPrice.Valid {
		orig := p.OriginalPrice.Int64
		f.OriginalPrice = &orig
		f.CurrentPercent = catalog.DiscountPercent(orig, p.Price)
	}
	return f
}

// Normalize cleans text, fills image fallbacks and derives the price from
// the original price and discount percent when both are set. A form without
// a discount percent keeps its price and discount label as given.
func (f ProductForm) Normalize() ProductForm {
	f.Name = cleanText(f.Name)
	f.Category = cleanText(f.Category)
	f.Discount = cleanText(f.Discount)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageURL = strings.TrimSpace(f.ImageURL)

	images := make([]string, 0, len(f.Images))
	for _, img := range f.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 && f.ImageURL != "" {
		images = []string{f.ImageURL}
	}
	if f.ImageURL == "" && len(images) > 0 {
		f.ImageURL = images[0]
	}
	f.Images = images

	if f.OriginalPrice != nil && *f.OriginalPrice <= 0 {
		f.OriginalPrice = nil
	}
	if f.OriginalPrice != nil && f.DiscountPercent != nil && *f.DiscountPercent >= 0 && *f.DiscountPercent <= 100 {
		f.Price = catalog.DiscountedPrice(*f.OriginalPrice, *f.DiscountPercent)
		f.Discount = catalog.DiscountLabel(*f.DiscountPercent)
	}
	return f
}

// Validate checks a normalized product form.
func (f ProductForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.Name == "" {
		errs["name"] = "Name is required"
	}
	if f.Category == "" {
		errs["category"] = "Category is required"
	}
	if f.Price <= 0 {
		errs["price"] = "Price must be greater than zero"
	}
	if f.OriginalPrice != nil && f.Price > *f.OriginalPrice {
		errs["price"] = "Price cannot exceed the original price"
	}
	if f.DiscountPercent != nil && (*f.DiscountPercent < 0 || *f.DiscountPercent > 100) {
		errs["discount_percent"] = "Discount must be between 0 and 100"
	}
	if len(f.Images) > store.MaxGalleryImages {
		errs["images"] = "Max 3 gallery photos."
	}
	return errs
}

func (f ProductForm) originalPrice() (v int64, ok bool) {
	if f.OriginalPrice == nil {
		return 0, false
	}
	return *f.OriginalPrice, true
}

// PromoForm is the promo banner editor payload.
type PromoForm struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ImageURL   string `json:"image_url"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
	Discount   string `json:"discount"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

// PromoFormFrom fills the editor from an existing promo.
func PromoFormFrom(p store.Promo) PromoForm {
	active := p.IsActive
	return PromoForm{
		Title:      p.Title,
		Subtitle:   p.Subtitle,
		ImageURL:   p.ImageUrl,
		ButtonText: p.ButtonText,
		ButtonLink: p.ButtonLink,
		Discount:   p.Discount,
		IsActive:   &active,
	}
}

// Normalize cleans text and fills the button defaults.
func (f PromoForm) Normalize() PromoForm {
	f.Title = cleanText(f.Title)
	f.Subtitle = cleanText(f.Subtitle)
	f.ButtonText = cleanText(f.ButtonText)
	f.Discount = cleanText(f.Discount)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.ButtonLink = strings.TrimSpace(f.ButtonLink)
	if f.ButtonText == "" {
		f.ButtonText = DefaultButtonText
	}
	if f.ButtonLink == "" {
		f.ButtonLink = DefaultButtonLink
	}
	return f
}

// Validate checks a normalized promo form.
func (f PromoForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.Title == "" {
		errs["title"] = "Title is required"
	}
	if f.ImageURL == "" {
		errs["image_url"] = "Image is required"
	}
	return errs
}

// TestimonialForm is the testimonial editor payload.
type TestimonialForm struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// TestimonialFormFrom fills the editor from an existing testimonial.
func TestimonialFormFrom(t store.Testimonial) TestimonialForm {
	return TestimonialForm{Name: t.Name, Text: t.Text, Rating: int(t.Rating)}
}

// Normalize cleans text. A missing rating becomes DefaultRating.
func (f TestimonialForm) Normalize() TestimonialForm {
	f.Name = cleanText(f.Name)
	f.Text = cleanText(f.Text)
	if f.Rating == 0 {
		f.Rating = DefaultRating
	}
	return f
}

// Validate checks a normalized testimonial form.
func (f TestimonialForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.Name == "" {
		errs["name"] = "Name is required"
	}
	if f.Text == "" {
		errs["text"] = "Text is required"
	}
	if f.Rating < 1 || f.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	return errs
}

// CategoryForm is the category editor payload.
type CategoryForm struct {
	Name string `json:"name"`
}

// Normalize cleans the name.
func (f CategoryForm) Normalize() CategoryForm {
	f.Name = cleanText(f.Name)
	return f
}

// Validate checks a normalized category form. The catalog's "All" filter
// name is reserved.
func (f CategoryForm) Validate() map[string]string {
	errs := make(map[string]string)
	switch {
	case f.Name == "":
		errs["name"] = "Name is required"
	case strings.EqualFold(f.Name, catalog.AllCategories):
		errs["name"] = "Name is reserved"
	}
	return errs
}
