// Package ui holds the terminal styling and prompts shared by kubeseed
// commands.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Muted palette that reads on dark terminals.
var (
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

func Success(s string) string { return SuccessStyle.Render(s) }
func Error(s string) string   { return ErrorStyle.Render(s) }
func Warn(s string) string    { return WarnStyle.Render(s) }
func Muted(s string) string   { return MutedStyle.Render(s) }
func Bold(s string) string    { return BoldStyle.Render(s) }

// Interactive reports whether output goes to a terminal that can take
// prompts.
func Interactive() bool {
	return termenv.DefaultOutput().TTY() != nil
}

// CheckItem is one row of a status checklist.
type CheckItem struct {
	Name   string
	OK     bool
	Detail string
}

// Checklist renders check items with pass/fail markers.
func Checklist(items []CheckItem) string {
	var b strings.Builder
	for _, item := range items {
		marker := Success("✓")
		if !item.OK {
			marker = Error("✗")
		}
		fmt.Fprintf(&b, "  %s %s", marker, item.Name)
		if item.Detail != "" {
			fmt.Fprintf(&b, " %s", Muted(item.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
