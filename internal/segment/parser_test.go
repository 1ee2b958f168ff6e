package segment

import (
	"fmt"
	"reflect"
	"testing"
)

func TestParser_MemoizesLastParse(t *testing.T) {
	p := NewParser()
	content := `before <tool_call>{"name":"x"}</tool_call> after`

	first := p.Parse(content)
	second := p.Parse(content)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached parse diverged:\nfirst  = %+v\nsecond = %+v", first, second)
	}
	// The memo returns the stored slice, not a re-parse.
	if len(first) == 0 || &first[0] != &second[0] {
		t.Error("second Parse() did not return the cached segments")
	}
}

func TestParser_DistinctContent(t *testing.T) {
	p := NewParser()

	a := p.Parse("hello")
	b := p.Parse("world")

	if a[0].Text != "hello" || b[0].Text != "world" {
		t.Errorf("Parse() mixed up cached entries: %+v, %+v", a, b)
	}
}

func TestParser_StreamingGrowth(t *testing.T) {
	// Simulates a streamed message growing delta by delta; every prefix
	// parses independently and the final result matches Parse.
	p := NewParser()
	full := `Checking.
<tool_call>{"name": "fetch", "arguments": {"url": "https://example.com"}}</tool_call>
<tool_result name="fetch">ok</tool_result>
Done.`

	var got []Segment
	for i := 1; i <= len(full); i++ {
		got = p.Parse(full[:i])
	}

	if want := Parse(full); !reflect.DeepEqual(got, want) {
		t.Errorf("final streamed parse = %+v, want %+v", got, want)
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := NewParser()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			content := fmt.Sprintf(`msg %d <tool_call>{"name":"t%d"}</tool_call>`, n, n)
			for j := 0; j < 50; j++ {
				segs := p.Parse(content)
				if len(segs) != 2 {
					t.Errorf("Parse() returned %d segments, want 2", len(segs))
					return
				}
			}
		}(i)
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}
