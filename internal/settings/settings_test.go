// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		rows []Setting
		key  string
		want string
	}{
		{"no rows uses default", nil, KeyWhatsAppNumber, "6281234567890"},
		{"stored value wins", []Setting{{KeyWhatsAppNumber, "628999"}}, KeyWhatsAppNumber, "628999"},
		{"empty value is absent", []Setting{{KeyWhatsAppNumber, ""}}, KeyWhatsAppNumber, "6281234567890"},
		{"partial rows keep other defaults", []Setting{{KeyWhatsAppNumber, "628999"}}, KeyStoreAddress, "Jakarta, Indonesia"},
		{"last duplicate wins", []Setting{{KeyStoreName, "A"}, {KeyStoreName, "B"}}, KeyStoreName, "B"},
		{"unknown key kept", []Setting{{"banner", "hi"}}, "banner", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.rows)
			if got[tt.key] != tt.want {
				t.Errorf("Resolve()[%q] = %q, want %q", tt.key, got[tt.key], tt.want)
			}
		})
	}
}

func TestResolve_AllKnownKeysPresent(t *testing.T) {
	v := Resolve(nil)
	for _, k := range KnownKeys() {
		if v[k] == "" {
			t.Errorf("key %q missing from resolved values", k)
		}
	}
	if v.OperationalHours() != "09:00 - 17:00" {
		t.Errorf("OperationalHours() = %q", v.OperationalHours())
	}
	if v.InstagramURL() != "https://instagram.com/tharabouqet" {
		t.Errorf("InstagramURL() = %q", v.InstagramURL())
	}
	if v.TikTokURL() != "https://tiktok.com/@tharabouqet" {
		t.Errorf("TikTokURL() = %q", v.TikTokURL())
	}
}

func TestValuesGet_FallsBackOnBareMap(t *testing.T) {
	v := Values{}
	if v.StoreName() != "Tharabouqet" {
		t.Errorf("StoreName() = %q, want default", v.StoreName())
	}
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := Defaults()
	a[KeyStoreName] = "changed"
	if Defaults()[KeyStoreName] != "Tharabouqet" {
		t.Error("mutating Defaults() result leaked into the defaults table")
	}
}

func TestIsKnownKey(t *testing.T) {
	if !IsKnownKey(KeyWhatsAppNumber) {
		t.Error("whatsapp_number should be known")
	}
	if IsKnownKey("favourite_colour") {
		t.Error("favourite_colour should not be known")
	}
}
