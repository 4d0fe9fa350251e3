package refine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// symbolReplacer applies the symbol table deterministically: at every
// position the longest matching raw form wins, and scanning resumes after
// the replacement so already-canonical output is never rewritten again.
type symbolReplacer struct {
	keys  []string
	table map[string]string
}

func newSymbolReplacer(table map[string]string) *symbolReplacer {
	keys := make([]string, 0, len(table))
	for k := range table {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &symbolReplacer{keys: keys, table: table}
}

func (r *symbolReplacer) apply(text string) string {
	if len(r.keys) == 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		matched := false
		for _, k := range r.keys {
			if strings.HasPrefix(text[i:], k) {
				b.WriteString(r.table[k])
				i += len(k)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			b.WriteString(text[i : i+size])
			i += size
		}
	}
	return b.String()
}

// StandardizeNotation rewrites every entry's text through the symbol table.
// Purely mechanical, no AI involved; timing and entry count are untouched.
// Applying it twice yields the same output.
func StandardizeNotation(entries []subtitle.Entry, table map[string]string) []subtitle.Entry {
	out := make([]subtitle.Entry, len(entries))
	copy(out, entries)
	if len(table) == 0 {
		return out
	}
	r := newSymbolReplacer(table)
	for i := range out {
		out[i].Text = r.apply(out[i].Text)
	}
	return out
}
