// Package quick expands the "quicktab" shorthand dialect into VexTab
// notation-language source.
//
// Shorthand is line oriented. A line that does not start with one of the
// notation keywords (notes, text, options) is treated as note data and gets
// an implicit "notes " prefix. A configurable defaults line (for example
// "tabstave notation=true") is placed at the top of the block and again at the
// start of the second stave.
//
// Usage:
//
//	d := quick.Resolve(quick.Options{IncludeTabstave: true})
//	src := quick.Expand("C D E\n\nF G A", d)
//	// tabstave
//	// notes C D E
//	//
//	// tabstave
//	// notes F G A
//
// Everything in this package is pure: no I/O, no shared state.
package quick
