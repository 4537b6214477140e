package colors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInit(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	on, off := true, false
	tests := []struct {
		name  string
		start bool
		force *bool
		want  bool
	}{
		{"force on", true, &on, true},
		{"force off", false, &off, false},
		{"keep enabled", false, nil, true},
		{"keep disabled", true, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = tt.start
			Init(tt.force)
			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyles(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	styles := map[string]*color.Color{
		"bold":    Bold(),
		"faint":   Faint(),
		"ok":      OK(),
		"failed":  Failed(),
		"warning": Warning(),
		"header":  Header(),
		"offset":  Offset(),
		"crc":     CRC(),
		"size":    Size(),
	}

	color.NoColor = false
	for name, c := range styles {
		if got := c.Sprint("x"); !strings.Contains(got, "\x1b[") {
			t.Errorf("%s: expected ANSI codes when colors enabled, got %q", name, got)
		}
	}

	color.NoColor = true
	for name, c := range styles {
		if got := c.Sprint("x"); got != "x" {
			t.Errorf("%s: expected plain text when colors disabled, got %q", name, got)
		}
	}
}
