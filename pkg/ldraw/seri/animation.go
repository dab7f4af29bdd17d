package seri

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// AnimStyle selects how an animation plays.
type AnimStyle int32

const (
	AnimUnset AnimStyle = iota
	AnimNone
	AnimOnce
	AnimRepeat
	AnimContinuous
	AnimPingPong
)

var animNames = [...]string{"", "NoAnimation", "Once", "Repeat", "Continuous", "PingPong"}

func (s AnimStyle) String() string {
	if s < 0 || int(s) >= len(animNames) {
		return ""
	}
	return animNames[s]
}

// ParseAnimStyle parses an animation style name, ignoring case. "none" is
// accepted for NoAnimation.
func ParseAnimStyle(s string) (AnimStyle, error) {
	if strings.EqualFold(s, "none") {
		return AnimNone, nil
	}
	for i, n := range animNames {
		if i > 0 && strings.EqualFold(n, s) {
			return AnimStyle(i), nil
		}
	}
	return AnimUnset, errors.New(errors.ErrCodeInvalidInput, "invalid animation style %q", s)
}

// Animation describes rigid-body or keyframe animation. Every field is
// optional; an animation with no field set is absent.
type Animation struct {
	style       AnimStyle
	period      Float
	velocity    Vec3
	angVelocity Vec3
	frameRange  [2]int32
	hasRange    bool
	frame       int32
	hasFrame    bool
}

// Present reports whether any field was set.
func (a *Animation) Present() bool {
	if a == nil {
		return false
	}
	return a.style != AnimUnset || a.period.Present() || a.velocity.Present() ||
		a.angVelocity.Present() || a.hasRange || a.hasFrame
}

// Style sets the playback style.
func (a *Animation) Style(s AnimStyle) *Animation {
	a.style = s
	return a
}

// Period sets the duration of one cycle in seconds.
func (a *Animation) Period(seconds float32) *Animation {
	a.period = FloatOf(seconds)
	return a
}

// Velocity sets a constant linear velocity.
func (a *Animation) Velocity(v mgl32.Vec3) *Animation {
	a.velocity = Vec3Of(v)
	return a
}

// AngVelocity sets a constant angular velocity in degrees per second.
func (a *Animation) AngVelocity(v mgl32.Vec3) *Animation {
	a.angVelocity = Vec3Of(v)
	return a
}

// FrameRange restricts keyframe playback to [first, last].
func (a *Animation) FrameRange(first, last int32) *Animation {
	a.frameRange = [2]int32{first, last}
	a.hasRange = true
	return a
}

// Frame pins keyframe playback to a single frame.
func (a *Animation) Frame(n int32) *Animation {
	a.frame = n
	a.hasFrame = true
	return a
}

// Write emits the animation under kw, normally [keyword.Animation] or
// [keyword.RootAnimation].
func (a *Animation) Write(w Writer, kw keyword.Keyword) {
	if !a.Present() {
		return
	}
	w.Begin(kw)
	if a.style != AnimUnset {
		w.Begin(keyword.Style)
		w.Enum(a.style.String(), int32(a.style))
		w.End()
	}
	a.period.Write(w, keyword.Period)
	a.velocity.Write(w, keyword.Velocity)
	a.angVelocity.Write(w, keyword.AngVelocity)
	if a.hasRange {
		w.Begin(keyword.FrameRange)
		w.Int(a.frameRange[0], a.frameRange[1])
		w.End()
	}
	if a.hasFrame {
		w.Begin(keyword.Frame)
		w.Int(a.frame)
		w.End()
	}
	w.End()
}
