package chat

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/yodaai/yoda/internal/tui/styles"
)

// MarkdownRenderer renders assistant text segments through glamour.
// Building a TermRenderer is expensive, so one is kept per width and
// rebuilt only when the layout changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates an empty renderer; the glamour instance
// is built lazily on first Render.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts markdown to styled terminal output wrapped at width.
// On any failure the raw content comes back along with the error so
// the caller can fall back to plain display.
func (m *MarkdownRenderer) Render(content string, width int) (string, error) {
	if content == "" {
		return "", nil
	}

	renderer, err := m.rendererFor(width)
	if err != nil {
		return content, err
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, err
	}
	return out, nil
}

// rendererFor returns the cached glamour renderer, rebuilding it when
// the width changed since the last call.
func (m *MarkdownRenderer) rendererFor(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer != nil && m.width == width {
		return m.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(themedStyle()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
		glamour.WithColorProfile(termenv.TrueColor),
	)
	if err != nil {
		return nil, err
	}

	m.renderer = renderer
	m.width = width
	return renderer, nil
}

// themedStyle adapts glamour's dark style to the active theme palette.
func themedStyle() ansi.StyleConfig {
	t := styles.CurrentTheme()
	style := glamourstyles.DarkStyleConfig

	primary := hexOf(t.Primary)
	secondary := hexOf(t.Secondary)
	accent := hexOf(t.Accent)
	muted := hexOf(t.FgMuted)
	subtle := hexOf(t.FgSubtle)
	base := hexOf(t.FgBase)

	// Headers carry the theme accents; the "#" prefixes are dropped
	// since the chat transcript is not a document.
	style.H1.Color = ptr(accent)
	style.H1.Bold = ptr(true)
	style.H1.Prefix = ""
	style.H1.Suffix = ""
	style.H2.Color = ptr(primary)
	style.H2.Bold = ptr(true)
	style.H2.Prefix = ""
	style.H3.Color = ptr(secondary)
	style.H3.Bold = ptr(true)
	style.H3.Prefix = ""
	style.H4.Color = ptr(secondary)
	style.H4.Prefix = ""
	style.H5.Color = ptr(muted)
	style.H5.Prefix = ""
	style.H6.Color = ptr(muted)
	style.H6.Prefix = ""

	style.Code.Color = ptr(secondary)

	style.CodeBlock.Chroma.Text.Color = ptr(base)
	style.CodeBlock.Chroma.Keyword.Color = ptr(primary)
	style.CodeBlock.Chroma.Comment.Color = ptr(muted)
	style.CodeBlock.Chroma.CommentPreproc.Color = ptr(muted)
	style.CodeBlock.Chroma.Name.Color = ptr(base)
	style.CodeBlock.Chroma.NameFunction.Color = ptr(accent)
	style.CodeBlock.Chroma.NameClass.Color = ptr(accent)
	style.CodeBlock.Chroma.Operator.Color = ptr(primary)

	style.Link.Color = ptr(primary)
	style.Link.Underline = ptr(true)
	style.LinkText.Color = ptr(primary)

	style.Item.BlockPrefix = "  "
	style.Enumeration.BlockPrefix = "  "

	style.BlockQuote.Color = ptr(muted)
	style.BlockQuote.Italic = ptr(true)

	style.Emph.Italic = ptr(true)
	style.Strong.Bold = ptr(true)

	style.HorizontalRule.Color = ptr(subtle)
	style.Table.Color = ptr(base)

	return style
}

func ptr[T any](v T) *T { return &v }

// hexOf renders a theme color as the "#rrggbb" string glamour wants.
func hexOf(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
