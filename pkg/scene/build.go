package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// Build constructs the scene. Errors name the offending node by its path
// in the document, e.g. nodes[0].children[2].
func (d *Description) Build() (*ldraw.Builder, error) {
	b := ldraw.New()
	for i, n := range d.Nodes {
		node, err := n.build(fmt.Sprintf("nodes[%d]", i))
		if err != nil {
			return nil, err
		}
		if err := b.Append(node); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// modifiers is satisfied by every node kind.
type modifiers interface {
	ldraw.Node
	Append(ldraw.Node) error
	O2W() *seri.O2W
	RootAnimation() *seri.Animation
}

func (n *Node) build(path string) (ldraw.Node, error) {
	colour, err := optColour(path, "colour", n.Colour)
	if err != nil {
		return nil, err
	}

	var node modifiers
	switch strings.ToLower(n.Kind) {
	case "point":
		p := ldraw.NewPoint(n.Name)
		node, err = p, first(n.point(path, p), applyBase(&p.Base, colour, n, path))
	case "line":
		l := ldraw.NewLine(n.Name)
		node, err = l, first(n.line(path, l), applyBase(&l.Base, colour, n, path))
	case "box":
		bx := ldraw.NewBox(n.Name)
		node, err = bx, first(n.box(path, bx), applyBase(&bx.Base, colour, n, path))
	case "model":
		m := ldraw.NewModel(n.Name)
		node, err = m, first(n.model(path, m), applyBase(&m.Base, colour, n, path))
	case "group":
		g := ldraw.NewGroup(n.Name)
		node, err = g, applyBase(&g.Base, colour, n, path)
	case "":
		return nil, errors.New(errors.ErrCodeInvalidScene, "%s: missing kind", path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidScene, "%s: unknown kind %q", path, n.Kind)
	}
	if err != nil {
		return nil, err
	}

	if err := n.transform(path, node.O2W()); err != nil {
		return nil, err
	}
	if n.RootAnimation != nil {
		if err := n.RootAnimation.apply(path+".root_animation", node.RootAnimation()); err != nil {
			return nil, err
		}
	}
	for i, c := range n.Children {
		child, err := c.build(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if err := node.Append(child); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// applyBase sets the modifiers shared by all kinds.
func applyBase[T any](b *ldraw.Base[T], colour seri.Colour, n *Node, path string) error {
	switch {
	case colour.Random():
		b.RandColour()
	case colour.Present():
		b.Colour(colour.Value())
	}
	if n.GroupColour != "" {
		gc, err := seri.ParseColour(n.GroupColour)
		if err != nil || gc.Random() {
			return errors.New(errors.ErrCodeInvalidScene, "%s.group_colour: invalid colour %q", path, n.GroupColour)
		}
		b.GroupColour(gc.Value())
	}
	if n.Hidden != nil {
		b.Hide(*n.Hidden)
	}
	if n.Wireframe != nil {
		b.Wireframe(*n.Wireframe)
	}
	if n.Solid != nil {
		b.Solid(*n.Solid)
	}
	if n.Reflectivity != nil {
		r := *n.Reflectivity
		if r < 0 || r > 1 {
			return errors.New(errors.ErrCodeInvalidScene, "%s.reflectivity: %v outside [0,1]", path, r)
		}
		b.Reflectivity(r)
	}
	if n.LeftHanded {
		b.LeftHanded()
	}
	if n.ScreenSpace {
		b.ScreenSpace()
	}
	if n.NoZTest {
		b.NoZTest()
	}
	if n.NoZWrite {
		b.NoZWrite()
	}
	if n.Axis != "" {
		axis, err := seri.ParseAxisId(n.Axis)
		if err != nil {
			return sceneErr(path+".axis", err)
		}
		b.AxisId(axis)
	}
	return nil
}

func first(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func sceneErr(path string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidScene, err, "%s: %s", path, errors.UserMessage(err))
}

func (n *Node) point(path string, p *ldraw.Point) error {
	if n.Style != "" {
		s, err := ldraw.ParsePointStyle(n.Style)
		if err != nil {
			return sceneErr(path+".style", err)
		}
		p.Style(s)
	}
	if n.Size != nil {
		v, err := vec2(path+".size", n.Size)
		if err != nil {
			return err
		}
		p.Size(v)
	}
	if n.Depth != nil {
		p.Depth(*n.Depth)
	}
	if n.Texture != nil {
		t, err := n.Texture.build(path + ".texture")
		if err != nil {
			return err
		}
		p.Texture(t)
	}
	for i, v := range n.Points {
		pos, colour, err := v.build(fmt.Sprintf("%s.points[%d]", path, i))
		if err != nil {
			return err
		}
		p.Pt(pos, colour...)
	}
	return nil
}

func (n *Node) line(path string, l *ldraw.Line) error {
	for i, blk := range n.Blocks {
		bpath := fmt.Sprintf("%s.blocks[%d]", path, i)
		style := ldraw.LineSegments
		if blk.Style != "" {
			s, err := ldraw.ParseLineStyle(blk.Style)
			if err != nil {
				return sceneErr(bpath+".style", err)
			}
			style = s
		}
		l.NewBlock().Style(style)
		if blk.Width != nil {
			l.Width(*blk.Width)
		}
		if blk.Dashed != nil {
			v, err := vec2(bpath+".dashed", blk.Dashed)
			if err != nil {
				return err
			}
			l.Dashed(v[0], v[1])
		}
		if blk.Arrow != "" {
			a, err := ldraw.ParseArrowType(blk.Arrow)
			if err != nil {
				return sceneErr(bpath+".arrow", err)
			}
			l.Arrow(a, blk.ArrowSize)
		}

		group := 2
		switch style {
		case ldraw.LineStrip:
			group = 1
		case ldraw.LineBezierSpline:
			group = 4
		}
		if len(blk.Vertices) == 0 {
			return errors.New(errors.ErrCodeInvalidScene, "%s: block has no vertices", bpath)
		}
		if len(blk.Vertices)%group != 0 {
			return errors.New(errors.ErrCodeInvalidScene, "%s: %s needs vertices in groups of %d, got %d",
				bpath, style, group, len(blk.Vertices))
		}

		verts := make([]mgl32.Vec3, len(blk.Vertices))
		colours := make([][]uint32, len(blk.Vertices))
		for j, v := range blk.Vertices {
			pos, c, err := v.build(fmt.Sprintf("%s.vertices[%d]", bpath, j))
			if err != nil {
				return err
			}
			verts[j], colours[j] = pos, c
		}
		for j := 0; j < len(verts); j += group {
			switch style {
			case ldraw.LineStrip:
				if j == 0 {
					l.Strip(verts[j], colours[j]...)
				} else {
					l.LineTo(verts[j], colours[j]...)
				}
			case ldraw.LineBezierSpline:
				l.Spline(verts[j], verts[j+1], verts[j+2], verts[j+3], colours[j]...)
			default:
				l.Segment(verts[j], verts[j+1], colours[j]...)
			}
		}
	}
	return nil
}

func (n *Node) box(path string, b *ldraw.Box) error {
	for i, it := range n.Boxes {
		ipath := fmt.Sprintf("%s.boxes[%d]", path, i)
		dim, err := vec3(ipath+".dim", it.Dim)
		if err != nil {
			return err
		}
		var pos mgl32.Vec3
		if it.Pos != nil {
			if pos, err = vec3(ipath+".pos", it.Pos); err != nil {
				return err
			}
		}
		colour, err := itemColour(ipath, it.Colour)
		if err != nil {
			return err
		}
		b.Add(dim, pos, colour...)
	}
	return nil
}

func (n *Node) model(path string, m *ldraw.Model) error {
	if n.File != "" {
		if err := errors.ValidateAssetPath(n.File); err != nil {
			return sceneErr(path+".file", err)
		}
		m.FilePath(n.File)
	}
	if n.Animation != nil {
		if err := n.Animation.apply(path+".animation", m.Animation()); err != nil {
			return err
		}
	}
	if n.NoMaterials {
		m.NoMaterials()
	}
	return nil
}

func (n *Node) transform(path string, o *seri.O2W) error {
	for i, op := range n.Transform {
		if err := op.apply(fmt.Sprintf("%s.transform[%d]", path, i), o); err != nil {
			return err
		}
	}
	return nil
}

// arity lists the operand count of every operation taking plain values.
var arity = map[string]int{
	"pos": 3, "scale": 3, "euler": 3, "rand": 4, "randpos": 4, "randori": 0,
	"normalise": 0, "orthonormalise": 0, "transpose": 0, "inverse": 0, "nonaffine": 0,
	"align": 3, "lookat": 3, "quat": 4, "axisangle": 4, "m3x3": 9, "m4x4": 16,
}

func (op Op) apply(path string, o *seri.O2W) error {
	name := strings.ToLower(op.Op)
	want, ok := arity[name]
	if !ok {
		return errors.New(errors.ErrCodeInvalidScene, "%s: unknown operation %q", path, op.Op)
	}
	v := op.Values
	if name == "scale" && len(v) == 1 {
		o.ScaleUniform(v[0])
		return nil
	}
	if len(v) != want {
		return errors.New(errors.ErrCodeInvalidScene, "%s: %s takes %d values, got %d", path, name, want, len(v))
	}
	switch name {
	case "pos":
		o.Pos(mgl32.Vec3{v[0], v[1], v[2]})
	case "scale":
		o.Scale(mgl32.Vec3{v[0], v[1], v[2]})
	case "euler":
		o.Euler(v[0], v[1], v[2])
	case "rand":
		o.Rand(mgl32.Vec3{v[0], v[1], v[2]}, v[3])
	case "randpos":
		o.RandPos(mgl32.Vec3{v[0], v[1], v[2]}, v[3])
	case "randori":
		o.RandOri()
	case "normalise":
		o.Normalise()
	case "orthonormalise":
		o.Orthonormalise()
	case "transpose":
		o.Transpose()
	case "inverse":
		o.Inverse()
	case "nonaffine":
		o.NonAffine()
	case "align":
		axis, err := seri.ParseAxisId(op.Axis)
		if err != nil {
			return sceneErr(path+".axis", err)
		}
		o.Align(axis, mgl32.Vec3{v[0], v[1], v[2]})
	case "lookat":
		o.LookAt(mgl32.Vec3{v[0], v[1], v[2]})
	case "quat":
		o.Quat(mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}})
	case "axisangle":
		o.AxisAngle(mgl32.Vec3{v[0], v[1], v[2]}, v[3])
	case "m3x3":
		var m mgl32.Mat3
		copy(m[:], v)
		o.Rot(m)
	case "m4x4":
		var m mgl32.Mat4
		copy(m[:], v)
		o.M4x4(m)
	}
	return nil
}

func (a *Animation) apply(path string, anim *seri.Animation) error {
	if a.Style != "" {
		s, err := seri.ParseAnimStyle(a.Style)
		if err != nil {
			return sceneErr(path+".style", err)
		}
		anim.Style(s)
	}
	if a.Period != nil {
		anim.Period(*a.Period)
	}
	if a.Velocity != nil {
		v, err := vec3(path+".velocity", a.Velocity)
		if err != nil {
			return err
		}
		anim.Velocity(v)
	}
	if a.AngVelocity != nil {
		v, err := vec3(path+".ang_velocity", a.AngVelocity)
		if err != nil {
			return err
		}
		anim.AngVelocity(v)
	}
	if a.FrameRange != nil {
		if len(a.FrameRange) != 2 || a.FrameRange[0] > a.FrameRange[1] {
			return errors.New(errors.ErrCodeInvalidScene, "%s.frame_range: want [first, last], got %v", path, a.FrameRange)
		}
		anim.FrameRange(a.FrameRange[0], a.FrameRange[1])
	}
	if a.Frame != nil {
		anim.Frame(*a.Frame)
	}
	return nil
}

func (t *Texture) build(path string) (seri.Texture, error) {
	if err := errors.ValidateAssetPath(t.Path); err != nil {
		return seri.Texture{}, sceneErr(path+".path", err)
	}
	tex := seri.Texture{Path: t.Path}
	if len(t.Addr) > 2 {
		return tex, errors.New(errors.ErrCodeInvalidScene, "%s.addr: want at most [u, v], got %d modes", path, len(t.Addr))
	}
	for i, s := range t.Addr {
		m, err := seri.ParseAddrMode(s)
		if err != nil {
			return tex, sceneErr(path+".addr", err)
		}
		if i == 0 {
			tex.AddrU, tex.AddrV = m, m
		} else {
			tex.AddrV = m
		}
	}
	if t.Filter != "" {
		f, err := seri.ParseFilterMode(t.Filter)
		if err != nil {
			return tex, sceneErr(path+".filter", err)
		}
		tex.Filter = f
	}
	if t.Alpha != nil {
		tex.Alpha = seri.BoolOf(*t.Alpha)
	}
	return tex, nil
}

func (v Vertex) build(path string) (mgl32.Vec3, []uint32, error) {
	pos, err := vec3(path+".pos", v.Pos)
	if err != nil {
		return pos, nil, err
	}
	colour, err := itemColour(path, v.Colour)
	return pos, colour, err
}

func optColour(path, field, s string) (seri.Colour, error) {
	if s == "" {
		return seri.Colour{}, nil
	}
	c, err := seri.ParseColour(s)
	if err != nil {
		return c, errors.New(errors.ErrCodeInvalidScene, "%s.%s: invalid colour %q", path, field, s)
	}
	return c, nil
}

// itemColour parses a per-item colour. Items cannot be random.
func itemColour(path, s string) ([]uint32, error) {
	c, err := optColour(path, "colour", s)
	if err != nil {
		return nil, err
	}
	if c.Random() {
		return nil, errors.New(errors.ErrCodeInvalidScene, "%s.colour: per-item colours cannot be random", path)
	}
	if !c.Present() {
		return nil, nil
	}
	return []uint32{c.Value()}, nil
}

func vec2(path string, v []float32) (mgl32.Vec2, error) {
	if len(v) != 2 {
		return mgl32.Vec2{}, errors.New(errors.ErrCodeInvalidScene, "%s: want 2 values, got %d", path, len(v))
	}
	return mgl32.Vec2{v[0], v[1]}, nil
}

func vec3(path string, v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, errors.New(errors.ErrCodeInvalidScene, "%s: want 3 values, got %d", path, len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}
