package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yodaai/yoda/internal/message"
)

// maxSlugLen caps the title-derived part of export filenames.
const maxSlugLen = 40

// ExportMarkdown writes the session transcript to w as a markdown
// document. Text parts render under role headings, tool calls and
// results render as fenced blocks, reasoning parts are omitted.
func ExportMarkdown(w io.Writer, sess *Session, msgs []*message.Message) error {
	title := strings.TrimSpace(sess.Title)
	if title == "" {
		title = "Untitled session"
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	fmt.Fprintf(&b, "Exported %s · %d messages\n", time.Now().Format("2006-01-02 15:04"), len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case message.RoleUser:
			b.WriteString("\n## You\n\n")
			b.WriteString(strings.TrimSpace(msg.TextContent()) + "\n")

		case message.RoleAssistant:
			b.WriteString("\n## Assistant\n\n")
			if text := strings.TrimSpace(msg.TextContent()); text != "" {
				b.WriteString(text + "\n")
			}
			for _, tc := range msg.ToolCalls() {
				fmt.Fprintf(&b, "\n**Tool call: %s**\n\n", tc.Name)
				if input := strings.TrimSpace(tc.Input); input != "" {
					b.WriteString("```json\n" + input + "\n```\n")
				}
			}

		case message.RoleTool:
			for _, tr := range msg.ToolResults() {
				label := "Tool result"
				if tr.IsError {
					label = "Tool error"
				}
				fmt.Fprintf(&b, "\n**%s: %s**\n\n", label, tr.Name)
				if content := strings.TrimSpace(tr.Content); content != "" {
					b.WriteString("```\n" + content + "\n```\n")
				}
			}

		case message.RoleSystem:
			// System prompts are not part of the conversation record.
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// exportDocument is the JSON export shape.
type exportDocument struct {
	Session  exportSession   `json:"session"`
	Messages []exportMessage `json:"messages"`
}

type exportSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type exportMessage struct {
	ID        string         `json:"id"`
	Role      message.Role   `json:"role"`
	Parts     []message.Part `json:"parts"`
	Model     string         `json:"model,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExportJSON writes the session and its messages to w as an indented
// JSON document, parts included verbatim.
func ExportJSON(w io.Writer, sess *Session, msgs []*message.Message) error {
	doc := exportDocument{
		Session: exportSession{
			ID:           sess.ID,
			Title:        sess.Title,
			MessageCount: sess.MessageCount,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		},
		Messages: make([]exportMessage, 0, len(msgs)),
	}
	for _, msg := range msgs {
		doc.Messages = append(doc.Messages, exportMessage{
			ID:        msg.ID,
			Role:      msg.Role,
			Parts:     msg.Parts,
			Model:     msg.Model,
			Provider:  msg.Provider,
			CreatedAt: msg.CreatedAt,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// ExportFilename returns a filesystem-safe markdown filename for the
// session, derived from its title and creation date.
func ExportFilename(sess *Session) string {
	slug := slugify(sess.Title)
	if slug == "" && len(sess.ID) >= 8 {
		slug = sess.ID[:8]
	}
	if slug == "" {
		slug = "session"
	}
	return fmt.Sprintf("yoda-%s-%s.md", slug, sess.CreatedAt.Format("2006-01-02"))
}

// slugify lowercases the title and reduces it to dash-separated
// alphanumeric runs.
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
