package clock

import "time"

// NowFunc returns current wall time. Override in tests so that expiry
// arithmetic becomes deterministic.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
