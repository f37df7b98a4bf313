package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// Out is where every printer writes.
var Out io.Writer = os.Stdout

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Success prints a success message
func Success(format string, args ...any) {
	fmt.Fprint(Out, successStyle.Render("✓ "))
	fmt.Fprintf(Out, format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...any) {
	fmt.Fprint(Out, warningStyle.Render("⚠ "))
	fmt.Fprintf(Out, format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...any) {
	fmt.Fprint(Out, errorStyle.Render("✗ "))
	fmt.Fprintf(Out, format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...any) {
	fmt.Fprint(Out, infoStyle.Render("ℹ "))
	fmt.Fprintf(Out, format+"\n", args...)
}

// Muted prints a muted message
func Muted(format string, args ...any) {
	fmt.Fprintln(Out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func Section(title string) {
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, primaryStyle.Render(title))
	fmt.Fprintln(Out, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// JSON writes v as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table prints rows in aligned columns under an upper-cased header. Cells
// must not contain styling; escape codes throw the alignment off.
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(headers, "\t")))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// StatusIcon returns a colored icon for an order status
func StatusIcon(status inventory.OrderStatus) string {
	c, _ := status.Canonical()
	switch c {
	case inventory.StatusCompleted:
		return successStyle.Render("✓")
	case inventory.StatusPending:
		return warningStyle.Render("○")
	case inventory.StatusShipped:
		return infoStyle.Render("◉")
	default:
		return mutedStyle.Render("•")
	}
}

// Stock renders a stock label in its alert color.
func Stock(s inventory.StockStatus) string {
	switch s {
	case inventory.OutOfStock:
		return errorStyle.Render(string(s))
	case inventory.LowStock:
		return warningStyle.Render(string(s))
	default:
		return successStyle.Render(string(s))
	}
}

func levelStyle(l inventory.Level) lipgloss.Style {
	switch l {
	case inventory.LevelCritical:
		return errorStyle
	case inventory.LevelWarning:
		return warningStyle
	default:
		return successStyle
	}
}

// Bar renders a horizontal bar of value scaled to width against peak,
// colored by level.
func Bar(value, peak, width int, l inventory.Level) string {
	n := 0
	if peak > 0 && value > 0 {
		n = min(max(value*width/peak, 1), width)
	}
	return levelStyle(l).Render(strings.Repeat("█", n)) + mutedStyle.Render(strings.Repeat("░", width-n))
}
