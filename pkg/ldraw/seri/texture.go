package seri

import (
	"strings"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// AddrMode is a texture addressing mode. Ordinals follow the D3D values.
type AddrMode int32

const (
	AddrUnset AddrMode = iota
	AddrWrap
	AddrMirror
	AddrClamp
	AddrBorder
	AddrMirrorOnce
)

var addrNames = [...]string{"", "Wrap", "Mirror", "Clamp", "Border", "MirrorOnce"}

func (a AddrMode) String() string {
	if a < 0 || int(a) >= len(addrNames) {
		return ""
	}
	return addrNames[a]
}

// ParseAddrMode parses an addressing mode name, ignoring case.
func ParseAddrMode(s string) (AddrMode, error) {
	for i, n := range addrNames {
		if i > 0 && strings.EqualFold(n, s) {
			return AddrMode(i), nil
		}
	}
	return AddrUnset, errors.New(errors.ErrCodeInvalidInput, "invalid texture address mode %q", s)
}

// FilterMode is a texture sampling filter.
type FilterMode int32

const (
	FilterUnset FilterMode = iota
	FilterPoint
	FilterLinear
	FilterAnisotropic
)

var filterNames = [...]string{"", "Point", "Linear", "Anisotropic"}

func (f FilterMode) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return ""
	}
	return filterNames[f]
}

// ParseFilterMode parses a filter name, ignoring case.
func ParseFilterMode(s string) (FilterMode, error) {
	for i, n := range filterNames {
		if i > 0 && strings.EqualFold(n, s) {
			return FilterMode(i), nil
		}
	}
	return FilterUnset, errors.New(errors.ErrCodeInvalidInput, "invalid texture filter %q", s)
}

// Texture describes an external image used as a sprite or surface. The
// image is referenced by path and never read.
type Texture struct {
	Path         string
	AddrU, AddrV AddrMode
	Filter       FilterMode
	Alpha        Bool
}

// Present reports whether a texture path was given.
func (t Texture) Present() bool { return t.Path != "" }

// Write emits *Texture {*FilePath {"..."} ...} when present.
func (t Texture) Write(w Writer) {
	if !t.Present() {
		return
	}
	w.Begin(keyword.Texture)
	w.Begin(keyword.FilePath)
	w.String(t.Path)
	w.End()
	if t.AddrU != AddrUnset || t.AddrV != AddrUnset {
		u, v := orWrap(t.AddrU), orWrap(t.AddrV)
		w.Begin(keyword.Addr)
		w.Enum(u.String(), int32(u))
		w.Enum(v.String(), int32(v))
		w.End()
	}
	if t.Filter != FilterUnset {
		w.Begin(keyword.Filter)
		w.Enum(t.Filter.String(), int32(t.Filter))
		w.End()
	}
	t.Alpha.Write(w, keyword.Alpha)
	w.End()
}

func orWrap(a AddrMode) AddrMode {
	if a == AddrUnset {
		return AddrWrap
	}
	return a
}
