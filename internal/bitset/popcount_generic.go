//go:build !amd64

package bitset

import "math/bits"

// On non-amd64 platforms there is no cpu.X86 feature table to probe;
// math/bits already picks the best instruction the Go compiler knows
// about for the target architecture (e.g. POPCNT on arm64 via VCNT).
func popcount64(w uint64) int {
	return bits.OnesCount64(w)
}

func trailingZeros64(w uint64) int {
	return bits.TrailingZeros64(w)
}
