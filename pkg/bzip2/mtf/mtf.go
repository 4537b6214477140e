// Package mtf implements the 256 entry move-to-front list shared by the bzip2 encoder and decoder.
package mtf

// List is an ordered recency list of byte values.
type List struct {
	list [256]byte
}

// New returns a List in identity order.
func New() *List {
	l := &List{}
	for i := range l.list {
		l.list[i] = byte(i)
	}
	return l
}

// ValueToFront moves v to the front of the list and returns its previous index.
func (l *List) ValueToFront(v byte) int {
	index := 0
	temp := l.list[0]
	if v == temp {
		return 0
	}
	l.list[0] = v
	for v != temp {
		index++
		temp, l.list[index] = l.list[index], temp
	}
	return index
}

// IndexToFront moves the value at index to the front of the list and returns it.
func (l *List) IndexToFront(index int) byte {
	v := l.list[index]
	copy(l.list[1:index+1], l.list[:index])
	l.list[0] = v
	return v
}
