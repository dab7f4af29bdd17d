// Package seri writes LDraw values in either of the two wire encodings.
//
// # Writers
//
// [Writer] is the emission contract shared by every value and node. It has
// two implementations:
//
//   - [TextWriter] produces the keyword script: *Keyword name colour { body }
//   - [BinaryWriter] produces tagged, length-prefixed sections
//
// Because every element emits through the same call sequence, the two
// encodings can never describe different trees. They are not required to
// round trip into each other: floats are written as the shortest decimal that
// reparses to the same float32 in text, and as raw IEEE-754 bits in binary.
//
// # Binary Framing
//
// A section is a 4-byte little-endian tag, a 4-byte signed little-endian
// payload length, then the payload:
//
//	[tag uint32][length int32][payload ...]
//
// A section's payload may itself be a sequence of sections. The length is
// patched in place when the section is closed, so a reader can skip any
// section with an unrecognised tag by advancing 8+length bytes.
//
// # Values
//
// The optional modifier types ([Colour], [Bool], [Flag], [Float], [Vec2],
// [AxisId], [Texture], [Animation], [O2W]) default to absent and write zero
// bytes in either encoding until they are set.
package seri
