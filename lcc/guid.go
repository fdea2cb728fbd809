package lcc

import (
	"strings"

	"github.com/blang/semver"
	"github.com/twinj/uuid"
)

// NewGUID produces 32 lowercase hex digits from a strong random
// source, matching the bare-hex GUID format meta.lcc expects (no
// dashes, unlike uuid's canonical string form).
func NewGUID() string {
	id := uuid.NewV4()
	return strings.ReplaceAll(id.String(), "-", "")
}

// supportedVersion is the container format version this writer emits
// and the newest one it accepts when checking compatibility.
var supportedVersion = semver.MustParse("5.0.0")

// CheckVersion reports whether versionStr (e.g. "5.0") is compatible
// with the format this writer produces: same major version, minor
// version no newer than what we emit.
func CheckVersion(versionStr string) error {
	full := versionStr
	if strings.Count(full, ".") == 1 {
		full += ".0"
	}
	v, err := semver.Parse(full)
	if err != nil {
		return err
	}
	if v.Major != supportedVersion.Major || v.Minor > supportedVersion.Minor {
		return &versionError{versionStr}
	}
	return nil
}

type versionError struct{ version string }

func (e *versionError) Error() string {
	return "unsupported container format version: " + e.version
}
