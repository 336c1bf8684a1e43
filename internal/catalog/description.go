// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// descriptionPolicy allows the safe subset of HTML Markdown produces.
var descriptionPolicy = bluemonday.UGCPolicy()

// RenderDescription converts a Markdown product description to sanitized HTML.
func RenderDescription(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering description: %w", err)
	}
	return descriptionPolicy.Sanitize(buf.String()), nil
}
