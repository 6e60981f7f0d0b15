package splitter

import "testing"

// TestParseChunkName checks that split's --verbose output format is parsed
// the way the reference splitter expects: third field, quote characters
// stripped.
func TestParseChunkName(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantOK   bool
	}{
		{"creating file `/tmp/image.zip.chunk_aa'", "/tmp/image.zip.chunk_aa", true},
		{"creating file '/tmp/image.zip.chunk_ab'", "/tmp/image.zip.chunk_ab", true},
		{"two fields", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		name, ok := parseChunkName(tt.line)
		if ok != tt.wantOK {
			t.Errorf("parseChunkName(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			continue
		}
		if ok && name != tt.wantName {
			t.Errorf("parseChunkName(%q) = %q, want %q", tt.line, name, tt.wantName)
		}
	}
}
