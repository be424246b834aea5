package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since mirrors time.Since but goes through NowFunc so that wall-clock
// measurements stay stubbable.
func Since(t time.Time) time.Duration { return Now().Sub(t) }
