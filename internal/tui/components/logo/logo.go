// Package logo renders the yoda wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// ASCII art for the yoda logo.
const yodaLogo = `
██╗   ██╗ ██████╗ ██████╗  █████╗
╚██╗ ██╔╝██╔═══██╗██╔══██╗██╔══██╗
 ╚████╔╝ ██║   ██║██║  ██║███████║
  ╚██╔╝  ██║   ██║██║  ██║██╔══██║
   ██║   ╚██████╔╝██████╔╝██║  ██║
   ╚═╝    ╚═════╝ ╚═════╝ ╚═╝  ╚═╝
`

// Smaller logo for narrow spaces.
const yodaLogoSmall = `
╦ ╦╔═╗╔╦╗╔═╗
╚╦╝║ ║ ║║╠═╣
 ╩ ╚═╝═╩╝╩ ╩
`

// Render returns the yoda logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(yodaLogo, "\n")

	// Apply gradient from primary to secondary color.
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderSmall returns a smaller version of the logo.
func RenderSmall() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(yodaLogoSmall, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderWithTagline returns the logo with a tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	logo := Render()

	tagline := t.S().Muted.Render("Your terminal AI assistant")

	return lipgloss.JoinVertical(lipgloss.Center, logo, "", tagline)
}

// Width returns the width of the full logo.
func Width() int {
	return lipgloss.Width(yodaLogo)
}

// Height returns the height of the full logo.
func Height() int {
	return lipgloss.Height(yodaLogo)
}
