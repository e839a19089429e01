package gitlog

import (
	"regexp"
	"strconv"
	"strings"
)

// semverPattern matches a bare or v-prefixed semantic version, ignoring any
// prerelease or build suffix for ordering purposes.
var semverPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)

// parseSemver extracts the numeric components of a semver tag name.
func parseSemver(name string) ([3]int, bool) {
	m := semverPattern.FindStringSubmatch(name)
	if m == nil {
		return [3]int{}, false
	}
	var v [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return [3]int{}, false
		}
		v[i] = n
	}
	return v, true
}

// compareSemver returns a positive number when a is newer than b, negative
// when older, zero when equal.
func compareSemver(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return 0
}

// NormalizeVersion strips the "v" prefix so "v0.6.0" and "0.6.0" compare
// equal as version labels.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(version), "v")
}
