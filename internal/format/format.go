package format

import (
	"fmt"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Seconds formats a duration as whole seconds for FFmpeg -ss/-t arguments.
// FFmpeg accepts fractional seconds; chunk boundaries are second-aligned so
// we emit up to three decimal places only when needed.
func Seconds(d time.Duration) string {
	s := d.Seconds()
	if s == float64(int64(s)) {
		return fmt.Sprintf("%d", int64(s))
	}
	return fmt.Sprintf("%.3f", s)
}

// Size formats a size in bytes for human display.
// Sizes of 1MB and above use one decimal place, matching the precision
// users expect in upload-limit messages.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb {
		return fmt.Sprintf("%.1fMB", float64(bytes)/mb)
	}
	if bytes >= kb {
		return fmt.Sprintf("%dKB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
