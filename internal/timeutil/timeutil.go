// Package timeutil holds the compact relative-time formatting shared
// by the picker and the list output.
package timeutil

import (
	"strconv"
	"time"
)

// Relative renders how long ago t was, compactly: "now" under a
// minute, then "5m", "3h", "2d", "6w". Future times render as
// "now".
func Relative(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return "now"
	case secs < 3600:
		return strconv.FormatInt(secs/60, 10) + "m"
	case secs < 86400:
		return strconv.FormatInt(secs/3600, 10) + "h"
	case secs < 604800:
		return strconv.FormatInt(secs/86400, 10) + "d"
	default:
		return strconv.FormatInt(secs/604800, 10) + "w"
	}
}
