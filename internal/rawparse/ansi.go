package rawparse

import "regexp"

// ansiEscape matches CSI sequences used by terminal spinners and cursor
// animation in CLI transcripts (e.g. \x1b[2K, \x1b[0m, \x1b[?25l).
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from s. Stripping is idempotent:
// the output contains no sequence the pattern could match again.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}
