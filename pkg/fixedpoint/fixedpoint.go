// Package fixedpoint implements the wide-integer arithmetic the
// maintenance core requires: every quantity that can overflow 64 bits
// is carried through github.com/holiman/uint256 with explicit, named
// rounding so call sites never reach for a library rounded-divide.
package fixedpoint

import "github.com/holiman/uint256"

// CeilDivShift computes ceil(num / 2^bits) = (num + mask) >> bits, the
// ceiling-division-by-power-of-two form used for the budget's cycle-rate
// computation. It must not be replaced by a generic rounded-divide: the
// mask-then-shift form is what every implementation must reproduce
// bit-for-bit.
func CeilDivShift(num *uint256.Int, bits uint) *uint256.Int {
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bits)
	mask.SubUint64(mask, 1)
	sum := new(uint256.Int).Add(num, mask)
	return sum.Rsh(sum, bits)
}

// MulDivFloor computes floor(a * b / d) in 256-bit intermediate
// precision. d must be nonzero.
func MulDivFloor(a, b, d uint64) uint64 {
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	q := new(uint256.Int).Div(prod, uint256.NewInt(d))
	return q.Uint64()
}

// MulPctFloor computes floor(total * pct / 10000) where pct is expressed
// in hundredths of a percent (100% = 10000), matching the percentage
// convention of §3.
func MulPctFloor(total uint64, pct uint16) uint64 {
	return MulDivFloor(total, uint64(pct), 10000)
}

// Min64 returns the lesser of a and b.
func Min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Min returns the lesser of a and b as uint256.Int values.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}
