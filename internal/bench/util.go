package bench

import (
	"math/rand"
	"path/filepath"
	"strconv"
)

// sampleRand returns the generator of sample i; samples never share a source.
func sampleRand(base int64, i int) *rand.Rand {
	return rand.New(rand.NewSource(base + int64(i)))
}

func dirOf(path string) string {
	if d := filepath.Dir(path); d != "." {
		return d
	}
	return ""
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
