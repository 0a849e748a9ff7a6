package report

import (
	"strings"
	"unicode"
)

// FileName returns the download name for a channel report, e.g.
// "Example Channel_YouTube_Report.csv". Path separators and control
// characters in the channel name are replaced with underscores.
func FileName(channelName, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return '_'
		}
		return r
	}, strings.TrimSpace(channelName))
	if name == "" {
		name = "channel"
	}
	return name + "_YouTube_Report." + strings.TrimPrefix(ext, ".")
}
