// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"strings"
	"testing"
)

func TestRenderDescription(t *testing.T) {
	html, err := RenderDescription("**Mawar merah** segar\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderDescription: %v", err)
	}
	if !strings.Contains(html, "<strong>Mawar merah</strong>") {
		t.Errorf("missing bold text in %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag not removed: %q", html)
	}
}
