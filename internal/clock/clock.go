package clock

import "time"

// NowFunc returns current time. Override in tests for deterministic
// decision and event timestamps.
var NowFunc = time.Now

// Now returns NowFunc in UTC.
func Now() time.Time { return NowFunc().UTC() }
