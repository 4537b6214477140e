package divsufsort

// budget bounds the work trSort may spend on tandem repeats before the remaining groups
// are handed to lsSort.
type budget struct {
	remain int32
	chance int32
}

var newBudget = func(size int32) *budget {
	return &budget{remain: size, chance: trLog(size)*2/3 + 1}
}

// update charges n units of work. It reports false once every chance is spent.
func (b *budget) update(size, n int32) bool {
	b.remain -= n
	if b.remain <= 0 {
		b.chance--
		if b.chance == 0 {
			return false
		}
		b.remain += size
	}
	return true
}
