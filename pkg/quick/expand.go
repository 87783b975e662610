package quick

import "strings"

// Keywords are the line prefixes that are passed through untouched.
// Matching is a case-sensitive prefix test.
var Keywords = []string{"notes", "text", "options"}

const (
	implicitKeyword = "notes "
	staveBreak      = "\n\n"
)

// HasKeyword reports whether line starts with one of the Keywords.
func HasKeyword(line string) bool {
	for _, kw := range Keywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// ExpandLine rewrites a single shorthand line.
// Empty and keyword lines are returned as is; anything else is note data.
func ExpandLine(line string) string {
	if line == "" || HasKeyword(line) {
		return line
	}
	return implicitKeyword + line
}

func expandLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = ExpandLine(line)
	}
	return lines
}

// Expand converts shorthand into notation-language source.
//
// When d is set, the defaults line is prepended to the block and inserted
// again after the first blank-line boundary. Only the first boundary is
// populated; later staves keep whatever the author wrote. Use
// ExpandEveryStave to populate all of them.
func Expand(src string, d Defaults) string {
	out := strings.Join(expandLines(src), "\n")

	line, ok := d.Line()
	if !ok {
		return out
	}

	out = line + "\n" + out
	return strings.Replace(out, staveBreak, staveBreak+line+"\n", 1)
}

// ExpandEveryStave is like Expand but inserts the defaults line at the start
// of every stave, i.e. before each non-blank line that follows a blank line.
// Runs of blank lines count as one boundary.
func ExpandEveryStave(src string, d Defaults) string {
	lines := expandLines(src)

	line, ok := d.Line()
	if !ok {
		return strings.Join(lines, "\n")
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, line)
	afterBlank := false
	for _, l := range lines {
		if l == "" {
			afterBlank = true
			out = append(out, l)
			continue
		}
		if afterBlank {
			out = append(out, line)
			afterBlank = false
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
