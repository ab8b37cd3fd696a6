package version // import "github.com/Xunop/book-manager/internal/version"

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is overridden at build time with -ldflags "-X ...version.Version=x.y.z".
var Version = "0.1.0"

func GetCurrentVersion() string {
	return Version
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsValid reports whether v is a semantic version, with or without the leading v.
func IsValid(v string) bool {
	return semver.IsValid(canonical(v))
}

// IsVersionGreaterThan reports whether version a is greater than b.
func IsVersionGreaterThan(a, b string) bool {
	return semver.Compare(canonical(a), canonical(b)) > 0
}

// Latest returns the greatest valid version of the list, or "" if there is none.
func Latest(versions []string) string {
	valid := make([]string, 0, len(versions))
	for _, v := range versions {
		if IsValid(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	slices.SortFunc(valid, func(a, b string) int {
		return semver.Compare(canonical(a), canonical(b))
	})
	return valid[len(valid)-1]
}
