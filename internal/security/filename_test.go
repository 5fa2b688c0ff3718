package security

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tunnel.pdb", "tunnel.pdb"},
		{"../../etc/passwd", "passwd"},
		{`C:\caver\out\tunnel_1.pdb`, "tunnel_1.pdb"},
		{"my tunnel (v2).pdb", "my_tunnel_v2_.pdb"},
		{"a   b", "a_b"},
		{"...", "unknown"},
		{"", "unknown"},
		{"řeka.pdb", "eka.pdb"},
		{"dir/", "unknown"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename_Length(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 500))
	if len(got) != maxNameLen {
		t.Errorf("len = %d, want %d", len(got), maxNameLen)
	}
}
