package scraper

import (
	"math/rand"
	"time"
)

// Bounds for the pause between successive detail-page fetches. Hammering a
// source with back-to-back requests trips its anti-scraping defenses, so the
// delay is required behavior rather than tuning.
const (
	throttleMin = 200 * time.Millisecond
	throttleMax = 800 * time.Millisecond
)

// sleepJitter blocks for a random duration in [lo, hi).
func sleepJitter(lo, hi time.Duration) {
	if hi <= lo {
		time.Sleep(lo)
		return
	}
	time.Sleep(lo + time.Duration(rand.Int63n(int64(hi-lo))))
}
