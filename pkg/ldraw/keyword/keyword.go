// Package keyword defines the stable (name, tag) pairs shared by the text and
// binary LDraw encodings.
//
// A keyword renders as the token "*Name" in text scripts and as a 32-bit
// section tag in binary streams. The tag is a hash of the lower-cased name,
// so the mapping is fixed across versions and a reader that does not know a
// tag can still skip its section using the length prefix alone.
//
// The table is populated at package initialization. Registering a duplicate
// name or a name whose tag collides with an existing entry panics: the table
// is a wire-format contract and a collision is a build defect.
package keyword

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Keyword is the binary tag of a registered keyword.
type Keyword uint32

type entry struct {
	name      string
	container bool
}

var (
	byTag  = map[Keyword]entry{}
	byName = map[string]Keyword{}
)

// Hash computes the tag for name. Names are case-insensitive.
func Hash(name string) uint32 {
	h := xxhash.Sum64String(strings.ToLower(name))
	return uint32(h) ^ uint32(h>>32)
}

func register(name string, container bool) Keyword {
	kw := Keyword(Hash(name))
	lower := strings.ToLower(name)
	if _, ok := byName[lower]; ok {
		panic(fmt.Sprintf("keyword: duplicate name %q", name))
	}
	if prev, ok := byTag[kw]; ok {
		panic(fmt.Sprintf("keyword: tag collision between %q and %q", prev.name, name))
	}
	byTag[kw] = entry{name: name, container: container}
	byName[lower] = kw
	return kw
}

func block(name string) Keyword { return register(name, true) }
func value(name string) Keyword { return register(name, false) }

// Node kinds.
var (
	Point   = block("Point")
	Line    = block("Line")
	Box     = block("Box")
	BoxList = block("BoxList")
	Model   = block("Model")
	Group   = block("Group")
	Block   = block("Block")
)

// Header and common modifiers.
var (
	Name          = value("Name")
	Colour        = value("Colour")
	RandColour    = value("RandColour")
	GroupColour   = value("GroupColour")
	Hidden        = value("Hidden")
	Wireframe     = value("Wireframe")
	AxisId        = value("AxisId")
	Solid         = value("Solid")
	Reflectivity  = value("Reflectivity")
	LeftHanded    = value("LeftHanded")
	ScreenSpace   = value("ScreenSpace")
	NoZTest       = value("NoZTest")
	NoZWrite      = value("NoZWrite")
	RootAnimation = block("RootAnimation")
	Animation     = block("Animation")
)

// Object to world transform operations.
var (
	O2W            = block("O2W")
	Pos            = value("Pos")
	Scale          = value("Scale")
	Euler          = value("Euler")
	Rand           = value("Rand")
	RandPos        = value("RandPos")
	RandOri        = value("RandOri")
	Normalise      = value("Normalise")
	Orthonormalise = value("Orthonormalise")
	Transpose      = value("Transpose")
	Inverse        = value("Inverse")
	NonAffine      = value("NonAffine")
	Align          = value("Align")
	LookAt         = value("LookAt")
	Quat           = value("Quat")
	AxisAngle      = value("AxisAngle")
	M3x3           = value("M3x3")
	M4x4           = value("M4x4")
)

// Type specific payload.
var (
	Style         = value("Style")
	Size          = value("Size")
	Depth         = value("Depth")
	PerItemColour = value("PerItemColour")
	Data          = value("Data")
	Width         = value("Width")
	Dashed        = value("Dashed")
	Arrow         = value("Arrow")
	Texture       = block("Texture")
	FilePath      = value("FilePath")
	Addr          = value("Addr")
	Filter        = value("Filter")
	Alpha         = value("Alpha")
	NoMaterials   = value("NoMaterials")
	Period        = value("Period")
	Velocity      = value("Velocity")
	AngVelocity   = value("AngVelocity")
	FrameRange    = value("FrameRange")
	Frame         = value("Frame")
)

// String returns the canonical name, or a hex tag for unknown keywords.
func (k Keyword) String() string {
	if e, ok := byTag[k]; ok {
		return e.name
	}
	return fmt.Sprintf("0x%08x", uint32(k))
}

// Token returns the text form of the keyword, e.g. "*Point".
func (k Keyword) Token() string { return "*" + k.String() }

// Tag returns the binary section tag.
func (k Keyword) Tag() uint32 { return uint32(k) }

// Known reports whether k is in the table.
func (k Keyword) Known() bool {
	_, ok := byTag[k]
	return ok
}

// IsContainer reports whether the binary payload of k is a sequence of
// nested sections rather than raw values.
func (k Keyword) IsContainer() bool { return byTag[k].container }

// Lookup finds a keyword by name, ignoring case and an optional leading '*'.
func Lookup(name string) (Keyword, bool) {
	kw, ok := byName[strings.ToLower(strings.TrimPrefix(name, "*"))]
	return kw, ok
}

// FromTag maps a binary tag back to its keyword.
func FromTag(tag uint32) (Keyword, bool) {
	kw := Keyword(tag)
	return kw, kw.Known()
}

// All returns every registered keyword, sorted by name.
func All() []Keyword {
	out := make([]Keyword, 0, len(byTag))
	for kw := range byTag {
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool { return byTag[out[i]].name < byTag[out[j]].name })
	return out
}
