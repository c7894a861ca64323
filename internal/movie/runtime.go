package movie

import "fmt"

// FormatRuntime renders a runtime in minutes as "1h 45m". Missing or
// non-positive runtimes render as "N/A".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
