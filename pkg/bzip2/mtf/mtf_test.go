package mtf

import (
	"math/rand/v2"
	"testing"
)

func TestValueToFront(t *testing.T) {
	l := New()
	tests := []struct {
		value byte
		want  int
	}{
		{0, 0},
		{3, 3},
		{3, 0},
		{0, 1},
		{255, 255},
		{3, 2},
	}
	for _, tt := range tests {
		if got := l.ValueToFront(tt.value); got != tt.want {
			t.Errorf("ValueToFront(%d) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestIndexToFront(t *testing.T) {
	l := New()
	if got := l.IndexToFront(5); got != 5 {
		t.Fatalf("IndexToFront(5) = %d, want 5", got)
	}
	if got := l.IndexToFront(1); got != 0 {
		t.Fatalf("IndexToFront(1) = %d, want 0", got)
	}
	if got := l.IndexToFront(255); got != 255 {
		t.Fatalf("IndexToFront(255) = %d, want 255", got)
	}
	want := []byte{255, 0, 5, 1, 2, 3, 4, 6}
	for i, w := range want {
		if l.list[i] != w {
			t.Errorf("list[%d] = %d, want %d", i, l.list[i], w)
		}
	}
}

func TestInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	enc, dec := New(), New()
	for range 10000 {
		v := byte(rng.IntN(256))
		if rng.IntN(4) == 0 {
			v = byte(rng.IntN(4))
		}
		idx := enc.ValueToFront(v)
		if got := dec.IndexToFront(idx); got != v {
			t.Fatalf("IndexToFront(ValueToFront(%d)) = %d", v, got)
		}
		if enc.list != dec.list {
			t.Fatalf("lists diverged after value %d", v)
		}
	}
}
