// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"fmt"
	"time"
)

// FormatUptime renders a duration the way !uptime reports it, dropping
// leading units that are zero: "2 hours, 0 minutes and 5 seconds".
func FormatUptime(uptime time.Duration) string {
	total := int64(uptime / time.Second)
	days := total / 86400
	hours := (total / 3600) % 24
	minutes := (total / 60) % 60
	seconds := total % 60

	switch {
	case days != 0:
		return fmt.Sprintf("%d days, %d hours, %d minutes and %d seconds", days, hours, minutes, seconds)
	case hours != 0:
		return fmt.Sprintf("%d hours, %d minutes and %d seconds", hours, minutes, seconds)
	case minutes != 0:
		return fmt.Sprintf("%d minutes and %d seconds", minutes, seconds)
	case seconds != 0:
		return fmt.Sprintf("%d seconds", seconds)
	default:
		return "less than a second"
	}
}
