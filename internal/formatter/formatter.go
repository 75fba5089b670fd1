// Package formatter renders movie records into Plex-style names.
package formatter

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/mydehq/plexify/internal/types"
)

const (
	windowsIllegal = `<>:"/\|?*`
	posixIllegal   = "/\x00"
)

// FileStem renders "{title} ({year})", plus " ({id})" when the record has one.
func FileStem(m types.MovieRecord) string {
	s := DirStem(m)
	if m.ExternalID != "" {
		s += fmt.Sprintf(" (%s)", m.ExternalID)
	}
	return s
}

// DirStem renders "{title} ({year})". Folder names never carry the external ID.
func DirStem(m types.MovieRecord) string {
	return fmt.Sprintf("%s (%s)", m.Title, m.Year)
}

// Sanitize removes characters illegal on target. TargetAuto resolves to the
// running OS; unknown targets use the Windows rules.
func Sanitize(s string, target types.TargetOS) string {
	illegal := windowsIllegal
	if Resolve(target) == types.TargetPOSIX {
		illegal = posixIllegal
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegal, r) {
			return -1
		}
		return r
	}, s)
}

// Resolve maps TargetAuto to the concrete rules of the running OS.
func Resolve(target types.TargetOS) types.TargetOS {
	switch target {
	case types.TargetPOSIX, types.TargetWindows:
		return target
	case types.TargetAuto:
		if runtime.GOOS == "windows" {
			return types.TargetWindows
		}
		return types.TargetPOSIX
	}
	return types.TargetWindows
}

// ParseTargetOS validates a user-supplied target name.
func ParseTargetOS(s string) (types.TargetOS, error) {
	switch t := types.TargetOS(strings.ToLower(strings.TrimSpace(s))); t {
	case types.TargetWindows, types.TargetPOSIX, types.TargetAuto:
		return t, nil
	case "":
		return types.TargetWindows, nil
	}
	return "", fmt.Errorf("unknown target OS %q (want windows, posix or auto)", s)
}
