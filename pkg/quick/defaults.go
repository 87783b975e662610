package quick

import "strings"

const (
	// DirectiveTabstave starts a tab stave.
	DirectiveTabstave = "tabstave"
	// DirectiveNotation renders standard notation above the tab.
	DirectiveNotation = "notation=true"
)

// Options selects which directives make up the defaults line.
type Options struct {
	IncludeTabstave bool
	IncludeNotation bool
}

// Defaults is an optional defaults line.
// The zero value is None, which is distinct from a present empty line.
type Defaults struct {
	line string
	set  bool
}

// None is the absent defaults line.
var None = Defaults{}

// Some wraps a present defaults line.
func Some(line string) Defaults {
	return Defaults{line: line, set: true}
}

// Line returns the defaults line and whether it is present.
func (d Defaults) Line() (string, bool) {
	return d.line, d.set
}

// IsSet reports whether the defaults line is present.
func (d Defaults) IsSet() bool {
	return d.set
}

// String is used for logging; absent defaults print as "<none>".
func (d Defaults) String() string {
	if !d.set {
		return "<none>"
	}
	return d.line
}

// Resolve builds the defaults line from o.
// Directive order is fixed: tabstave before notation=true.
func Resolve(o Options) Defaults {
	var directives []string
	if o.IncludeTabstave {
		directives = append(directives, DirectiveTabstave)
	}
	if o.IncludeNotation {
		directives = append(directives, DirectiveNotation)
	}
	if len(directives) == 0 {
		return None
	}
	return Some(strings.Join(directives, " "))
}
