package models

// Key constants for models components.
const (
	keyEnter = "enter"
	keyDown  = "down"
)
