package crc

import (
	"bytes"
	"testing"
)

func TestSum32(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0x00000000},
		{"check", []byte("123456789"), 0xfc891918},
		{"single", []byte{'a'}, 0x19939b6b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Write(tt.data)
			if got := c.Sum32(); got != tt.want {
				t.Errorf("Sum32() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestUpdateRun(t *testing.T) {
	for _, n := range []int{0, 1, 4, 255, 1000} {
		a, b := New(), New()
		a.UpdateRun('z', n)
		b.Write(bytes.Repeat([]byte{'z'}, n))
		if a.Sum32() != b.Sum32() {
			t.Errorf("UpdateRun(%d) = %#08x, want %#08x", n, a.Sum32(), b.Sum32())
		}
	}
}

func TestCombine(t *testing.T) {
	if got := Combine(0, 0xfc891918); got != 0xfc891918 {
		t.Errorf("Combine(0, x) = %#08x", got)
	}
	if got := Combine(0x80000001, 0); got != 0x00000003 {
		t.Errorf("Combine() rotate = %#08x, want 0x00000003", got)
	}
}
