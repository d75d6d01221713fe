package blobstore

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var windowsDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SecureFilename reduces a client-supplied filename to a flat ASCII name
// that is safe to use as a storage key. It may return "".
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	folded := strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	joined := strings.Join(strings.Fields(folded), "_")

	b.Reset()
	for _, r := range joined {
		if isFilenameRune(r) {
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), "._")

	if out != "" {
		stem, _, _ := strings.Cut(out, ".")
		if _, reserved := windowsDeviceNames[strings.ToUpper(stem)]; reserved {
			out = "_" + out
		}
	}
	return out
}

func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.' || r == '-':
		return true
	}
	return false
}
