package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
)

var (
	addressStyle   = color.New(color.FgWhite)
	domainStyle    = color.New(color.Bold, color.FgHiWhite)
	timestampStyle = color.New(color.Faint)
	pendingStyle   = color.New(color.FgYellow)
	validStyle     = color.New(color.FgGreen)
	invalidStyle   = color.New(color.FgRed)
	labelStyle     = color.New(color.FgCyan)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// formatAddress renders an address, or a dash for the zero address
func formatAddress(a common.Address) string {
	if a == (common.Address{}) {
		return "-"
	}
	return a.Hex()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// formatUntil describes how long until t, relative to now
func formatUntil(t, now time.Time) string {
	d := t.Sub(now)
	if d <= 0 {
		return "elapsed"
	}
	return "in " + d.Round(time.Second).String()
}
