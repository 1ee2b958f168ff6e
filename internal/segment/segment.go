// Package segment splits streamed assistant content into renderable
// segments, separating plain text from embedded tool-call and
// tool-result markup.
package segment

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind identifies the type of a parsed segment.
type Kind string

// Segment kinds.
const (
	KindText       Kind = "text"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
)

// ToolCall is a parsed <tool_call> region.
type ToolCall struct {
	// Name is the tool name from the JSON payload.
	Name string
	// Arguments is the pretty-printed JSON rendering of the payload's
	// arguments value. Empty means arguments were absent (or could not
	// be re-serialized, which is treated the same).
	Arguments string
}

// ToolResult is a parsed <tool_result> region.
type ToolResult struct {
	// Name is the tool name from the tag attribute.
	Name string
	// Result is the tag body with surrounding whitespace trimmed.
	Result string
}

// Segment is one parsed unit of chat content: literal text or one
// recognized markup region. Exactly one of Text, ToolCall and
// ToolResult is meaningful, selected by Kind.
type Segment struct {
	Kind       Kind
	Text       string
	ToolCall   *ToolCall
	ToolResult *ToolResult
}

// NewTextSegment creates a text segment.
func NewTextSegment(text string) Segment {
	return Segment{Kind: KindText, Text: text}
}

// NewToolCallSegment creates a tool call segment. An empty arguments
// string means the call carried no arguments.
func NewToolCallSegment(name, arguments string) Segment {
	return Segment{Kind: KindToolCall, ToolCall: &ToolCall{Name: name, Arguments: arguments}}
}

// NewToolResultSegment creates a tool result segment.
func NewToolResultSegment(name, result string) Segment {
	return Segment{Kind: KindToolResult, ToolResult: &ToolResult{Name: name, Result: result}}
}

// IsBlank reports whether the segment is a text segment that is empty
// or whitespace-only. The rendering layer skips blank segments.
func (s Segment) IsBlank() bool {
	return s.Kind == KindText && strings.TrimSpace(s.Text) == ""
}

// markupRE matches the two recognized markup regions. Group 1 captures
// the tool-call payload, groups 2 and 3 the tool-result name and body.
// Both bodies are non-greedy, so nested braces inside a tool-call
// payload are consumed up to the first closing tag.
var markupRE = regexp.MustCompile(`(?s)<tool_call>(.*?)</tool_call>|<tool_result name="([^"]*)">(.*?)</tool_result>`)

// Parse splits content into ordered segments.
//
// The string is scanned left to right for non-overlapping tool-call and
// tool-result regions. Literal text between regions becomes a text
// segment unless it is empty or whitespace-only, in which case it is
// dropped. Unterminated tags are left as literal text.
//
// A tool-call payload must be a JSON object with a string "name" field.
// Payloads that fail to parse, or lack the name, produce no segment at
// all; the surrounding text is unaffected. When the whole input yields
// no segments (no regions found, or everything was dropped), the entire
// input is returned as a single text segment, even when it is empty or
// whitespace-only. Callers can rely on the result never being empty and
// filter blank text with IsBlank.
//
// Parse is pure: no I/O, no shared state, and it never panics on
// malformed input. Re-parsing the same string yields the same segments.
func Parse(content string) []Segment {
	matches := markupRE.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []Segment{NewTextSegment(content)}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	last := 0

	for _, m := range matches {
		if text := content[last:m[0]]; strings.TrimSpace(text) != "" {
			segments = append(segments, NewTextSegment(text))
		}
		last = m[1]

		if m[2] >= 0 {
			if seg, ok := parseToolCall(content[m[2]:m[3]]); ok {
				segments = append(segments, seg)
			}
			continue
		}

		name := content[m[4]:m[5]]
		body := content[m[6]:m[7]]
		segments = append(segments, NewToolResultSegment(name, strings.TrimSpace(body)))
	}

	if text := content[last:]; strings.TrimSpace(text) != "" {
		segments = append(segments, NewTextSegment(text))
	}

	// Everything matched was dropped (or blank). Fall back to the whole
	// input as one text segment so the result is never empty.
	if len(segments) == 0 {
		return []Segment{NewTextSegment(content)}
	}

	return segments
}

// parseToolCall decodes a tool-call payload. Returns false when the
// payload is not a JSON object or the name field is missing or not a
// string; such spans are skipped rather than rendered.
func parseToolCall(payload string) (Segment, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return Segment{}, false
	}

	name, ok := obj["name"].(string)
	if !ok {
		return Segment{}, false
	}

	arguments := ""
	if raw, present := obj["arguments"]; present {
		if pretty, err := json.MarshalIndent(raw, "", "  "); err == nil {
			arguments = string(pretty)
		}
	}

	return NewToolCallSegment(name, arguments), true
}
