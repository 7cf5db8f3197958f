package utils

import "time"

// FormatMessageTime renders a message timestamp the way chat bubbles show it.
func FormatMessageTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}
