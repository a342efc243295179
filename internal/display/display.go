// Package display provides terminal formatting for jourj output.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/malotru/jourj/internal/contacts"
	"github.com/malotru/jourj/internal/filter"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	TodayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	SoonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	LaterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	ShowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	BlockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
)

// RemainingDot returns a colored dot for how close a birthday is.
func RemainingDot(days int) string {
	switch {
	case days == 0:
		return TodayStyle.Render("●")
	case days <= 7:
		return SoonStyle.Render("○")
	default:
		return LaterStyle.Render("○")
	}
}

// Remaining formats the countdown to the next birthday.
func Remaining(days int) string {
	switch {
	case days == 0:
		return TodayStyle.Render("today!")
	case days == 1:
		return SoonStyle.Render("tomorrow")
	default:
		return Dim.Render(fmt.Sprintf("in %d days", days))
	}
}

// StateBadge renders a label's effective state for the labels listing.
func StateBadge(s filter.State) string {
	switch s {
	case filter.StateShow:
		return ShowStyle.Render(fmt.Sprintf("%-5s", "show"))
	case filter.StateBlock:
		return BlockStyle.Render(fmt.Sprintf("%-5s", "block"))
	default:
		return Muted.Render(fmt.Sprintf("%-5s", "hide"))
	}
}

// ContactLine renders one contact row for the list surface.
func ContactLine(c contacts.Contact) string {
	name := Bold.Render(c.Name)
	age := ""
	if c.Age > 0 {
		age = Dim.Render(fmt.Sprintf(" (turns %d)", c.Age))
	}
	labels := ""
	if len(c.Labels) > 0 {
		labels = Muted.Render("  [" + strings.Join(c.Labels, ", ") + "]")
	}
	return fmt.Sprintf("%s %s%s  ·  %s%s", RemainingDot(c.RemainingDays), name, age, Remaining(c.RemainingDays), labels)
}

// ActionHints renders the reachable-actions suffix for a contact.
func ActionHints(a contacts.Actions) string {
	var hints []string
	if a.Phone != "" {
		hints = append(hints, "call "+a.Phone)
	}
	if a.Email != "" {
		hints = append(hints, "mail "+a.Email)
	}
	if a.WhatsApp {
		hints = append(hints, "whatsapp")
	}
	if a.Signal {
		hints = append(hints, "signal")
	}
	if a.Telegram {
		hints = append(hints, "telegram")
	}
	if len(hints) == 0 {
		return ""
	}
	return Dim.Render("      " + strings.Join(hints, " · "))
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success.Render("✓") + " " + msg)
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+msg)
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// SubHeader prints a dim subsection label.
func SubHeader(title string) {
	fmt.Println(Muted.Render(title))
}
