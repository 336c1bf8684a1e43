// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package settings resolves store-wide key/value settings against built-in
// defaults and shares the resolved values with every consumer.
package settings

import "sort"

// Known setting keys.
const (
	KeyWhatsAppNumber   = "whatsapp_number"
	KeyInstagramURL     = "instagram_url"
	KeyTikTokURL        = "tiktok_url"
	KeyStoreAddress     = "store_address"
	KeyOperationalHours = "operational_hours"
	KeyStoreName        = "store_name"
)

// DefaultWhatsAppNumber is used whenever no contact number is configured.
const DefaultWhatsAppNumber = "6281234567890"

var defaults = map[string]string{
	KeyWhatsAppNumber:   DefaultWhatsAppNumber,
	KeyInstagramURL:     "https://instagram.com/tharabouqet",
	KeyTikTokURL:        "https://tiktok.com/@tharabouqet",
	KeyStoreAddress:     "Jakarta, Indonesia",
	KeyOperationalHours: "09:00 - 17:00",
	KeyStoreName:        "Tharabouqet",
}

// Setting is a single stored key/value row.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Values is a fully resolved settings map: every known key is present.
type Values map[string]string

// Resolve merges rows over the defaults. Unknown keys are kept, empty values
// are treated as absent and duplicate keys resolve to the last row.
func Resolve(rows []Setting) Values {
	v := Defaults()
	for _, r := range rows {
		if r.Value == "" {
			continue
		}
		v[r.Key] = r.Value
	}
	return v
}

// Defaults returns a fresh copy of the built-in values.
func Defaults() Values {
	v := make(Values, len(defaults))
	for k, d := range defaults {
		v[k] = d
	}
	return v
}

// IsKnownKey reports whether key is one the storefront reads.
func IsKnownKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// KnownKeys lists the known keys in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for key, falling back to the default when the map
// was not produced by Resolve.
func (v Values) Get(key string) string {
	if s := v[key]; s != "" {
		return s
	}
	return defaults[key]
}

func (v Values) WhatsAppNumber() string   { return v.Get(KeyWhatsAppNumber) }
func (v Values) InstagramURL() string     { return v.Get(KeyInstagramURL) }
func (v Values) TikTokURL() string        { return v.Get(KeyTikTokURL) }
func (v Values) StoreAddress() string     { return v.Get(KeyStoreAddress) }
func (v Values) OperationalHours() string { return v.Get(KeyOperationalHours) }
func (v Values) StoreName() string        { return v.Get(KeyStoreName) }

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Equal reports whether both maps hold the same entries.
func (v Values) Equal(other Values) bool {
	if len(v) != len(other) {
		return false
	}
	for k, s := range v {
		if o, ok := other[k]; !ok || o != s {
			return false
		}
	}
	return true
}
