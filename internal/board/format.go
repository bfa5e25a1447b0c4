package board

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

var countUnits = []string{"", "K", "M", "G", "T", "P"}

// HumanCount abbreviates n with a K/M/G suffix once it reaches from, keeping
// one decimal: 1500 -> "1.5K", 2000 -> "2K".
func HumanCount(n, from int) string {
	if n < from || n < 1000 {
		return strconv.Itoa(n)
	}
	v := float64(n)
	unit := 0
	for v >= 1000 && unit < len(countUnits)-1 {
		v /= 1000
		unit++
	}
	v = math.Round(v*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + countUnits[unit]
}

var medals = []string{":first_place:", ":second_place:", ":third_place:"}

// Medal names a zero-based placement: a medal emoji for the podium, an
// ordinal after that.
func Medal(i int) string {
	if i >= 0 && i < len(medals) {
		return medals[i]
	}
	return humanize.Ordinal(i + 1)
}

// FileSize formats a byte count with binary units.
func FileSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
