package revision

import (
	"math"
	"strconv"
	"strings"
)

// InitialVersion is assigned to every newly created prompt.
const InitialVersion = "v1.0"

// MajorVersion extracts the integer major component of a version string such
// as "v3.0". Anything it cannot read yields 0; majors beyond int saturate.
func MajorVersion(version string) int {
	n, err := strconv.Atoi(majorDigits(version))
	if err != nil {
		return math.MaxInt
	}
	return n
}

// NextVersion returns the version following version. The minor component is
// always 0. The major is incremented as a decimal string so it never wraps.
func NextVersion(version string) string {
	return "v" + incrementDecimal(majorDigits(version)) + ".0"
}

// majorDigits returns the major component without leading zeros, or "0" when
// it is not a plain non-negative integer.
func majorDigits(version string) string {
	s := strings.TrimSpace(version)
	s = strings.TrimPrefix(s, "v")
	s = strings.TrimPrefix(s, "V")
	major, _, _ := strings.Cut(s, ".")
	if major == "" {
		return "0"
	}
	for _, r := range major {
		if r < '0' || r > '9' {
			return "0"
		}
	}
	major = strings.TrimLeft(major, "0")
	if major == "" {
		return "0"
	}
	return major
}

func incrementDecimal(digits string) string {
	b := []byte(digits)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}
