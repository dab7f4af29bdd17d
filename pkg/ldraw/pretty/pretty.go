// Package pretty reformats LDraw script text for reading.
//
// Blocks are indented one tab per level. A block that holds no nested
// keyword and fits in the line width is collapsed onto one line:
//
//	*Point p ff00ff00 {
//		*Size {0.1 0.3}
//		*O2W {
//			*Pos {-1 -1 -1}
//		}
//	}
//
// The formatter only tracks brace depth. It never parses the grammar, so it
// accepts any text and is stable on its own output. Quoted strings are
// copied verbatim.
package pretty

import "strings"

// DefaultLineWidth is the width budget for collapsed blocks.
const DefaultLineWidth = 80

// Options configure [Options.Format].
type Options struct {
	// LineWidth bounds collapsed lines, counting a tab as one column.
	// Zero means DefaultLineWidth.
	LineWidth int
}

// Format reformats s with default options.
func Format(s string) string {
	return Options{}.Format(s)
}

// Format reformats s. The result ends with a single newline unless s holds
// only whitespace.
func (o Options) Format(s string) string {
	width := o.LineWidth
	if width <= 0 {
		width = DefaultLineWidth
	}
	f := formatter{width: width, short: -1, out: make([]byte, 0, len(s)+len(s)/4)}
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			j := quoteEnd(s, i)
			f.out = append(f.out, s[i:j]...)
			i = j
			continue
		case isSpace(c):
			f.space()
		case c == '{':
			f.open()
		case c == '}':
			f.close()
		default:
			if c == '*' {
				f.shortOK = false
			}
			f.out = append(f.out, c)
		}
		i++
	}
	f.trim()
	if len(f.out) == 0 {
		return ""
	}
	return string(f.out) + "\n"
}

type formatter struct {
	out   []byte
	width int
	depth int

	// short is the output offset of the '{' that may still be collapsed,
	// or -1.
	short   int
	shortOK bool
}

func (f *formatter) last() byte {
	if len(f.out) == 0 {
		return '\n'
	}
	return f.out[len(f.out)-1]
}

// space collapses a whitespace run to one blank and drops it entirely
// after indentation.
func (f *formatter) space() {
	switch f.last() {
	case '\n', '\t', ' ':
		return
	}
	f.out = append(f.out, ' ')
}

func (f *formatter) open() {
	f.depth++
	f.short = len(f.out)
	f.shortOK = true
	f.out = append(f.out, '{', '\n')
	f.indent()
}

func (f *formatter) close() {
	if f.depth > 0 {
		f.depth--
	}
	if !f.collapse() {
		f.trim()
		f.out = append(f.out, '\n')
		f.indent()
		f.out = append(f.out, '}')
	}
	f.out = append(f.out, '\n')
	f.indent()
	f.short, f.shortOK = -1, false
}

// collapse rewrites the pending short block onto one line if it fits.
func (f *formatter) collapse() bool {
	if f.short < 0 || !f.shortOK {
		return false
	}
	line := "{" + strings.Join(fields(string(f.out[f.short+1:])), " ") + "}"
	col := f.short
	if nl := lastNewline(f.out[:f.short]); nl >= 0 {
		col = f.short - nl - 1
	}
	if col+len(line) > f.width {
		return false
	}
	f.out = append(f.out[:f.short], line...)
	return true
}

func (f *formatter) indent() {
	for range f.depth {
		f.out = append(f.out, '\t')
	}
}

func (f *formatter) trim() {
	for len(f.out) > 0 && isSpace(f.out[len(f.out)-1]) {
		f.out = f.out[:len(f.out)-1]
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func lastNewline(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '\n' {
			return i
		}
	}
	return -1
}

// quoteEnd returns the offset just past the string literal starting at
// s[i]. An unterminated literal runs to the end of s.
func quoteEnd(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

// fields splits s on whitespace, keeping string literals whole.
func fields(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			i++
			continue
		}
		j := i
		for j < len(s) && !isSpace(s[j]) {
			if s[j] == '"' {
				j = quoteEnd(s, j)
				continue
			}
			j++
		}
		out = append(out, s[i:j])
		i = j
	}
	return out
}
