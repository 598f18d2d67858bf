//go:build amd64

package bitset

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// hasPOPCNT records whether the CPU exposes a hardware population-count
// instruction, detected once at package init. Mirrors the coregex
// simd package's cpu-feature-flag dispatch (hasAVX2 = cpu.X86.HasAVX2),
// here selecting the population-count path behind Count().
var hasPOPCNT = cpu.X86.HasPOPCNT

func popcount64(w uint64) int {
	if hasPOPCNT {
		return bits.OnesCount64(w)
	}
	return softwarePopcount64(w)
}

func trailingZeros64(w uint64) int {
	return bits.TrailingZeros64(w)
}

// softwarePopcount64 is the classic SWAR bit-counting fallback for
// CPUs without a hardware popcount instruction.
func softwarePopcount64(w uint64) int {
	const (
		m1  = 0x5555555555555555
		m2  = 0x3333333333333333
		m4  = 0x0f0f0f0f0f0f0f0f
		h01 = 0x0101010101010101
	)
	w -= (w >> 1) & m1
	w = (w & m2) + ((w >> 2) & m2)
	w = (w + (w >> 4)) & m4
	return int((w * h01) >> 56)
}
