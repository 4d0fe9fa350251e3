package gemini

import (
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Lines []string `json:"lines"`
	}

	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			"direct object",
			`{"lines":["a","b"]}`,
			[]string{"a", "b"},
			false,
		},
		{
			"code fence",
			"```json\n{\"lines\":[\"a\"]}\n```",
			[]string{"a"},
			false,
		},
		{
			"fence without language tag",
			"```\n{\"lines\":[\"a\"]}\n```",
			[]string{"a"},
			false,
		},
		{
			"leading prose",
			"Here is the corrected JSON you asked for:\n{\"lines\":[\"a\"]}",
			[]string{"a"},
			false,
		},
		{
			"trailing prose",
			`{"lines":["a"]} hope that helps!`,
			[]string{"a"},
			false,
		},
		{
			"empty", "", nil, true,
		},
		{
			"not json at all", "sorry, I cannot do that", nil, true,
		},
		{
			"truncated json", `{"lines":["a"`, nil, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeJSON(tt.content, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.Lines) != len(tt.want) {
				t.Fatalf("lines = %v, want %v", got.Lines, tt.want)
			}
			for i := range tt.want {
				if got.Lines[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got.Lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeJSONArray(t *testing.T) {
	var got []int
	if err := DecodeJSON("the result is:\n[1, 2, 3]", &got); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}

	got = nil
	if err := DecodeJSON("[4, 5] let me know if that works", &got); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Errorf("got %v, want [4 5]", got)
	}

	var objs []struct {
		N int `json:"n"`
	}
	if err := DecodeJSON(`[{"n":1},{"n":2}] done`, &objs); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(objs) != 2 || objs[1].N != 2 {
		t.Errorf("got %v, want two elements ending in 2", objs)
	}
}

func TestPayloadSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	snippet := payloadSnippet(long)
	if len([]rune(snippet)) > 170 {
		t.Errorf("snippet too long: %d runes", len([]rune(snippet)))
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Errorf("snippet %q missing ellipsis", snippet)
	}
}
