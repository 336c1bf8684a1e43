// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package order

import "github.com/mileusna/useragent"

// Device classes reported for order intents.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceDesktop = "desktop"
)

// DeviceClass classifies the client that composed an order intent.
func DeviceClass(uaString string) string {
	ua := useragent.Parse(uaString)
	switch {
	case ua.Mobile:
		return DeviceMobile
	case ua.Tablet:
		return DeviceTablet
	case ua.Bot:
		return DeviceBot
	default:
		return DeviceDesktop
	}
}
