package cmd

import "testing"

func TestOutputNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fn    func(string) string
		want  string
	}{
		{"compress", "notes.txt", compressedName, "notes.txt.bz2"},
		{"decompress bz2", "notes.txt.bz2", decompressedName, "notes.txt"},
		{"decompress bz", "notes.txt.bz", decompressedName, "notes.txt"},
		{"decompress tbz2", "src.tbz2", decompressedName, "src.tar"},
		{"decompress tbz", "src.tbz", decompressedName, "src.tar"},
		{"decompress unknown", "blob", decompressedName, "blob.out"},
		{"convert xz", "src.tar.xz", convertedName, "src.tar.bz2"},
		{"convert txz", "src.txz", convertedName, "src.tbz2"},
		{"convert other", "blob", convertedName, "blob.bz2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
