// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package order

// ShareLinks are the social share targets for a product page.
type ShareLinks struct {
	Copy     string `json:"copy"`
	WhatsApp string `json:"whatsapp"`
	Facebook string `json:"facebook"`
	X        string `json:"x"`
}

// Share builds share links for the product page at pageURL.
func Share(storeName, productName, pageURL string) ShareLinks {
	text := "Cek buket cantik ini dari " + storeName + ": " + productName
	return ShareLinks{
		Copy:     pageURL,
		WhatsApp: "https://wa.me/?text=" + EncodeURIComponent(text+" "+pageURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + EncodeURIComponent(pageURL),
		X:        "https://twitter.com/intent/tweet?text=" + EncodeURIComponent(text) + "&url=" + EncodeURIComponent(pageURL),
	}
}
