package subtitle

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "00:00:00,000"},
		{"sub-second", 0.5, "00:00:00,500"},
		{"half second", 39.5, "00:00:39,500"},
		{"minute rollover", 61.25, "00:01:01,250"},
		{"hour rollover", 3661.002, "01:01:01,002"},
		{"rounds to millisecond", 1.23456, "00:00:01,235"},
		{"negative clamps", -3, "00:00:00,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.seconds); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"standard comma", "00:00:39,500", 39.5, false},
		{"whisper period", "00:00:39.500", 39.5, false},
		{"hours", "01:01:01,002", 3661.002, false},
		{"padded whitespace", " 00:00:01,000 ", 1.0, false},
		{"empty", "", 0, true},
		{"missing millis", "00:00:39", 0, true},
		{"not a timestamp", "garbage", 0, true},
		{"non-numeric field", "00:xx:39,500", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	content := `1
00:00:00,000 --> 00:00:02,500
Welcome back everyone.

2
00:00:02,500 --> 00:00:05,000
Today we cover
binary search trees.

garbage block

3
00:00:05,250 --> 00:00:07,000
Let's begin.
`

	entries := Parse(content)
	if len(entries) != 3 {
		t.Fatalf("Parse() returned %d entries, want 3", len(entries))
	}
	if entries[1].Text != "Today we cover\nbinary search trees." {
		t.Errorf("multi-line text = %q", entries[1].Text)
	}
	if entries[2].Start != 5.25 || entries[2].End != 7.0 {
		t.Errorf("entry 3 timing = [%v, %v], want [5.25, 7]", entries[2].Start, entries[2].End)
	}
}

func TestParseEmpty(t *testing.T) {
	if entries := Parse("   \n\n  "); entries != nil {
		t.Errorf("Parse(blank) = %v, want nil", entries)
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	entries := []Entry{
		{1, 0, 2.5, "Welcome back everyone."},
		{2, 2.5, 5, "Today we cover\nbinary search trees."},
		{3, 5.25, 7, "x ≤ y means x is bounded by y"},
	}
	Quantize(entries)

	got := Parse(Compose(entries))
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, entries)
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	entries := []Entry{
		{1, 0, 1.5, "first"},
		{2, 1.75, 3, "second"},
	}

	if err := WriteFile(path, entries); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("file round trip mismatch:\ngot  %+v\nwant %+v", got, entries)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("ReadFile(missing) expected error")
	}
}
