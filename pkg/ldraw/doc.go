// Package ldraw builds LDraw scene descriptions.
//
// A scene is a tree of nodes rooted in a [Builder]. The node kinds are
// [Point] clouds, [Line] sets, [Box] lists, [Model] references and
// [Group]s. Every kind carries the same modifiers (colour, visibility,
// render state and an object to world transform) and may own children:
//
//	b := ldraw.New()
//	g := b.Group("scene")
//	g.Box("crate", 0xFF8B4513).Cube(1, mgl32.Vec3{})
//	g.O2W().Euler(0, 45, 0).Pos(mgl32.Vec3{0, 0, -5})
//
// A scene serializes either to script text,
//
//	*Group scene {*O2W {*Euler {0 45 0} *Pos {0 0 -5}} *Box crate ff8b4513 {*Data {1 1 1}}}
//
// or to the binary form of nested, length-prefixed sections. Both are
// produced by one emission pass over the tree through a [seri.Writer], so
// they always describe the same scene. [Builder.Save] writes either form
// to disk atomically.
//
// Modifiers that were never set are not emitted at all.
package ldraw
