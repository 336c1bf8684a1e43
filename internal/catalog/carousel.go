// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import "time"

// DefaultCarouselInterval is how long a slide stays before auto-advancing.
const DefaultCarouselInterval = 4 * time.Second

// Carousel models an auto-advancing slider. It holds no timer: the caller
// drives it with Tick and the time elapsed since the last slide change.
type Carousel struct {
	count    int
	index    int
	interval time.Duration
	paused   bool
	elapsed  time.Duration
}

// NewCarousel creates a carousel over count slides.
func NewCarousel(count int, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultCarouselInterval
	}
	return &Carousel{count: count, interval: interval}
}

// CarouselState is the initial slider state sent to clients.
type CarouselState struct {
	Count      int   `json:"count"`
	Index      int   `json:"index"`
	IntervalMS int64 `json:"interval_ms"`
	AutoPlay   bool  `json:"autoplay"`
}

// State returns the current slide, interval and whether the slider
// auto-advances.
func (c *Carousel) State() CarouselState {
	return CarouselState{
		Count:      c.count,
		Index:      c.Index(),
		IntervalMS: c.interval.Milliseconds(),
		AutoPlay:   c.count > 1 && !c.paused,
	}
}

// Index returns the visible slide, or -1 when there are no slides.
func (c *Carousel) Index() int {
	if c.count == 0 {
		return -1
	}
	return c.index
}

// Next advances one slide, wrapping to the first.
func (c *Carousel) Next() {
	if c.count == 0 {
		return
	}
	c.index = (c.index + 1) % c.count
	c.elapsed = 0
}

// Prev goes back one slide, wrapping to the last.
func (c *Carousel) Prev() {
	if c.count == 0 {
		return
	}
	c.index = (c.index - 1 + c.count) % c.count
	c.elapsed = 0
}

// Select jumps to slide i. Out-of-range indexes are ignored.
func (c *Carousel) Select(i int) {
	if i < 0 || i >= c.count {
		return
	}
	c.index = i
	c.elapsed = 0
}

// Hover pauses or resumes auto-advance.
func (c *Carousel) Hover(on bool) {
	c.paused = on
}

// Paused reports whether auto-advance is suspended.
func (c *Carousel) Paused() bool { return c.paused }

// Tick adds d to the elapsed time and advances once per full interval.
// Nothing happens while paused or with fewer than two slides.
func (c *Carousel) Tick(d time.Duration) {
	if c.paused || c.count < 2 {
		return
	}
	c.elapsed += d
	for c.elapsed >= c.interval {
		c.elapsed -= c.interval
		c.index = (c.index + 1) % c.count
	}
}
