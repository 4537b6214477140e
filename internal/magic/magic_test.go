package magic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsBZip2(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
		want    bool
		wantErr bool
	}{
		{"bzip2", []byte("BZh91AY&SY"), true, false},
		{"bad digit", []byte("BZh0"), false, true},
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00}, false, true},
		{"short", []byte("BZ"), false, true},
		{"empty", nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := IsBZip2(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsBZip2() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IsBZip2() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsBZip2(filepath.Join(dir, "xz")); err == nil || !strings.Contains(err.Error(), "bzip2 convert") {
		t.Errorf("IsBZip2() on an xz file should suggest convert, got %v", err)
	}
	if _, err := IsBZip2(filepath.Join(dir, "missing")); err == nil {
		t.Error("IsBZip2() on a missing file should fail")
	}
}

func TestIsXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.xz")
	if err := os.WriteFile(path, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00, 0x00, 0x04}, 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsXZ(path); !ok || err != nil {
		t.Errorf("IsXZ() = %v, %v", ok, err)
	}
}
