package bzip2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupBlockSize(t *testing.T) {
	tests := []struct {
		name    string
		want    BlockSize
		wantErr bool
	}{
		{"fast", Fastest, false},
		{"best", Best, false},
		{"1", 1, false},
		{"5", 5, false},
		{"9", 9, false},
		{"0", 0, true},
		{"10", 0, true},
		{"medium", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupBlockSize(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LookupBlockSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("LookupBlockSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockSizeString(t *testing.T) {
	assert.Equal(t, "fast", Fastest.String())
	assert.Equal(t, "best", Best.String())
	assert.Equal(t, "5", BlockSize(5).String())
	assert.Equal(t, "unknown(12)", BlockSize(12).String())
	assert.Equal(t, 500000, BlockSize(5).Bytes())
	assert.Len(t, BlockSizes(), 11)
	for _, name := range BlockSizes() {
		b, err := LookupBlockSize(name)
		assert.NoError(t, err)
		assert.True(t, b.Valid())
	}
}
