package executor

import (
	"regexp"
	"strings"
)

var needsQuotes = regexp.MustCompile(`[ *]`)

// PrettyPrintCommand formats a command as the key used in fixture files.
// It is not meant for execution: only arguments containing a space or a
// star are quoted.
func PrettyPrintCommand(command Command) string {
	parts := make([]string, len(command))
	for i, arg := range command {
		if needsQuotes.MatchString(arg) {
			parts[i] = "'" + arg + "'"
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}
