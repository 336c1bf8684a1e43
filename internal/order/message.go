// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package order

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const separator = "--------------------------------"

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah formats n with Indonesian digit grouping, e.g. 150000 -> "150.000".
func FormatRupiah(n int64) string {
	return rupiahPrinter.Sprintf("%d", n)
}

// ComposeMessage renders the order text. Lines are joined with "\n".
func ComposeMessage(storeName string, item Item, form Form) string {
	card := strings.TrimSpace(form.CardMessage)
	if card == "" {
		card = "-"
	}

	lines := []string{
		"Halo " + storeName + ", saya ingin memesan:",
		separator,
		"Produk: *" + item.Name + "*",
		"Harga: Rp " + FormatRupiah(item.Price),
		separator,
		"Tanggal Kirim: " + strings.TrimSpace(form.DeliveryDate),
		"Penerima: " + strings.TrimSpace(form.Recipient),
		"Kartu Ucapan: " + card,
		separator,
		"Mohon info ketersediaan & ongkirnya ya kak. Terima kasih!",
	}
	return strings.Join(lines, "\n")
}

// DeepLink builds https://wa.me/<number>?text=<message>. An empty number
// yields a link without a recipient.
func DeepLink(number, text string) string {
	return "https://wa.me/" + number + "?text=" + EncodeURIComponent(text)
}

// EncodeURIComponent percent-encodes s as JavaScript's encodeURIComponent
// does: every byte except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
