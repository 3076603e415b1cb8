// Package ui provides terminal rendering helpers shared by the remtool
// commands. Styling degrades to plain text automatically when stdout is not a
// color-capable terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	folderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func init() {
	// lipgloss resolves the color profile through termenv; force plain output
	// when the environment cannot display ANSI colors.
	if termenv.EnvColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// RenderAccent highlights a status or heading fragment.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderPass renders a success marker.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn renders a warning marker.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderErr renders an error marker.
func RenderErr(s string) string { return errStyle.Render(s) }

// RenderFolder renders a folder name in directory listings.
func RenderFolder(s string) string { return folderStyle.Render(s) }

// RenderDim renders secondary detail such as ids.
func RenderDim(s string) string { return dimStyle.Render(s) }
