package sync

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// IsAffirmative classifies a free-text answer. Anything whose trimmed,
// lowercased form starts with "y" counts as yes; everything else, including
// empty input, is no.
func IsAffirmative(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}

// Confirm presents a yes/no question on out and reads one answer line from
// the scanner. The caller owns the scanner and reuses it across prompts; a
// scanner buffers ahead of the line it returns, so wrapping the same reader
// twice would lose input. A closed or failing input stream counts as no.
func Confirm(sc *bufio.Scanner, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", message)
	if !sc.Scan() {
		return false
	}
	return IsAffirmative(sc.Text())
}
