package segment

import (
	"github.com/yodaai/yoda/internal/lru"
)

// parseCacheSize bounds the memo of recently parsed strings. Streaming
// re-parses the same growing string once per delta, so a handful of
// entries is enough to make redundant re-parses free.
const parseCacheSize = 16

// Parser memoizes Parse results by content string. During streaming the
// renderer re-parses on every update; identical content hits the cache
// and returns the previously computed segments.
//
// Cached slices are shared between callers and must not be mutated.
type Parser struct {
	cache *lru.Cache[string, []Segment]
}

// NewParser creates a memoizing parser.
func NewParser() *Parser {
	return &Parser{cache: lru.New[string, []Segment](parseCacheSize)}
}

// Parse returns the segments for content, reusing the cached result
// when the same string was parsed recently. Safe for concurrent use.
func (p *Parser) Parse(content string) []Segment {
	if segments, ok := p.cache.Get(content); ok {
		return segments
	}

	segments := Parse(content)
	p.cache.Put(content, segments)
	return segments
}
