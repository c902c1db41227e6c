package utils

import (
	"fmt"
	"strconv"
	"time"
)

// MessageType selects the colour of a CLI status line.
type MessageType int

const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI colours of the status lines.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// DecorateText colours s for its message type. Unknown types are left plain.
func DecorateText(s string, msgType MessageType) string {
	c, ok := messageColors[msgType]
	if !ok {
		return s
	}
	return c + s + DefaultColor
}

// FormatTime writes a duration as seconds with two decimals, prefixed with
// whole minutes and hours once it reaches them.
func FormatTime(d time.Duration) string {
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute).Seconds()
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %.2fs", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %.2fs", m, s)
	}
	return fmt.Sprintf("%.2fs", s)
}

// FormatFloat writes a coordinate or length the way the markup expects it:
// the shortest decimal representation, never in exponent form.
func FormatFloat(v float64) string {
	if v == 0 {
		// avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
