package sessions

// Messages the modal and its children emit toward the root model.

// ModalClosedMsg asks the root to dismiss the sessions modal.
type ModalClosedMsg struct{}

// SwitchSessionMsg asks the root to make the given session current.
type SwitchSessionMsg struct {
	SessionID string
}

// SessionSelectedMsg reports the list's cursor choice.
type SessionSelectedMsg struct {
	SessionID string
}

// RenameSessionMsg opens the rename input prefilled with the current
// title.
type RenameSessionMsg struct {
	SessionID    string
	CurrentTitle string
}

// DeleteSessionMsg opens the delete confirmation for a session.
type DeleteSessionMsg struct {
	SessionID string
}

// ExportSessionMsg starts the export flow for a session.
type ExportSessionMsg struct {
	SessionID string
}

// ExportMarkdownMsg asks the root to write the session transcript to a
// markdown file.
type ExportMarkdownMsg struct {
	SessionID string
}

// NewSessionMsg asks the root to create a fresh session.
type NewSessionMsg struct{}

// GenerateTitleMsg is the list's request to title a session with the
// model.
type GenerateTitleMsg struct {
	SessionID string
}

// RequestTitleGenerationMsg forwards a title request up to whoever owns
// the small model.
type RequestTitleGenerationMsg struct {
	SessionID string
}

// TitleGeneratedMsg carries the model-generated title back down.
type TitleGeneratedMsg struct {
	SessionID string
	Title     string
}
