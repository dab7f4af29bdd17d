package seri

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// Op is one recorded object-to-world operation.
type Op struct {
	Keyword keyword.Keyword
	Axis    AxisId // only for Align
	Values  []float32
}

// O2W accumulates object-to-world transform operations. Nothing is folded
// into a matrix: the consumer replays the operations in recorded order, and
// both encodings are rendered from the same log.
type O2W struct {
	ops []Op
}

// Present reports whether any operation was recorded.
func (o *O2W) Present() bool { return o != nil && len(o.ops) != 0 }

// Ops returns the recorded operations in call order.
func (o *O2W) Ops() []Op { return o.ops }

// Reset drops every recorded operation.
func (o *O2W) Reset() *O2W {
	o.ops = o.ops[:0]
	return o
}

func (o *O2W) add(kw keyword.Keyword, v ...float32) *O2W {
	o.ops = append(o.ops, Op{Keyword: kw, Values: v})
	return o
}

// Pos translates by v.
func (o *O2W) Pos(v mgl32.Vec3) *O2W { return o.add(keyword.Pos, v[0], v[1], v[2]) }

// Scale scales by v per axis.
func (o *O2W) Scale(v mgl32.Vec3) *O2W { return o.add(keyword.Scale, v[0], v[1], v[2]) }

// ScaleUniform scales all axes by s.
func (o *O2W) ScaleUniform(s float32) *O2W { return o.add(keyword.Scale, s, s, s) }

// Euler rotates by pitch, yaw and roll in degrees.
func (o *O2W) Euler(pitch, yaw, roll float32) *O2W {
	return o.add(keyword.Euler, pitch, yaw, roll)
}

// Rand places the object at a random position within radius of centre and
// gives it a random orientation.
func (o *O2W) Rand(centre mgl32.Vec3, radius float32) *O2W {
	return o.add(keyword.Rand, centre[0], centre[1], centre[2], radius)
}

// RandPos places the object at a random position within radius of centre.
func (o *O2W) RandPos(centre mgl32.Vec3, radius float32) *O2W {
	return o.add(keyword.RandPos, centre[0], centre[1], centre[2], radius)
}

// RandOri applies a random orientation.
func (o *O2W) RandOri() *O2W { return o.add(keyword.RandOri) }

// Normalise normalises the rotation axes.
func (o *O2W) Normalise() *O2W { return o.add(keyword.Normalise) }

// Orthonormalise orthonormalises the rotation part.
func (o *O2W) Orthonormalise() *O2W { return o.add(keyword.Orthonormalise) }

// Transpose transposes the accumulated matrix.
func (o *O2W) Transpose() *O2W { return o.add(keyword.Transpose) }

// Inverse inverts the accumulated matrix.
func (o *O2W) Inverse() *O2W { return o.add(keyword.Inverse) }

// NonAffine marks the transform as intentionally non-affine.
func (o *O2W) NonAffine() *O2W { return o.add(keyword.NonAffine) }

// Align rotates so that axis points along dir.
func (o *O2W) Align(axis AxisId, dir mgl32.Vec3) *O2W {
	o.ops = append(o.ops, Op{Keyword: keyword.Align, Axis: axis, Values: []float32{dir[0], dir[1], dir[2]}})
	return o
}

// LookAt orients the object to face at.
func (o *O2W) LookAt(at mgl32.Vec3) *O2W { return o.add(keyword.LookAt, at[0], at[1], at[2]) }

// Quat rotates by q, written as x y z w.
func (o *O2W) Quat(q mgl32.Quat) *O2W {
	return o.add(keyword.Quat, q.V[0], q.V[1], q.V[2], q.W)
}

// AxisAngle rotates by degrees about axis.
func (o *O2W) AxisAngle(axis mgl32.Vec3, degrees float32) *O2W {
	return o.add(keyword.AxisAngle, axis[0], axis[1], axis[2], degrees)
}

// Rot applies a 3x3 rotation, written in column-major order.
func (o *O2W) Rot(m mgl32.Mat3) *O2W { return o.add(keyword.M3x3, m[:]...) }

// M4x4 applies a full transform, written in column-major order.
func (o *O2W) M4x4(m mgl32.Mat4) *O2W { return o.add(keyword.M4x4, m[:]...) }

// Write emits *O2W {op ...} when any operation was recorded.
func (o *O2W) Write(w Writer) {
	if !o.Present() {
		return
	}
	w.Begin(keyword.O2W)
	for _, op := range o.ops {
		w.Begin(op.Keyword)
		if op.Axis.Present() {
			w.Enum(op.Axis.String(), int32(op.Axis))
		}
		w.Float(op.Values...)
		w.End()
	}
	w.End()
}
