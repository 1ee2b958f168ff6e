// Package page defines the top-level pages of the TUI.
package page

// ID identifies a top-level page.
type ID string

// Page identifiers.
const (
	Welcome ID = "welcome"
	Wizard  ID = "wizard"
	Chat    ID = "chat"
	Main    ID = "main"
)

// ChangeMsg requests navigation to another page.
type ChangeMsg struct {
	Page ID
}
