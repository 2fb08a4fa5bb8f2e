package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// mixer supplies the value-type specific arithmetic a Track needs. Implementations
// are zero-size so a Track carries no per-instance cost for them.
type mixer[T any] interface {
	lerp(a, b T, t float32) T
	hermite(t, dt float32, p0, m0, p1, m1 T) T
	finite(v T) bool
}

type vectorMixer struct{}

func (vectorMixer) lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return common.LerpVec3(a, b, t)
}

func (vectorMixer) hermite(t, dt float32, p0, m0, p1, m1 mgl32.Vec3) mgl32.Vec3 {
	h00, h10, h01, h11 := hermiteBasis(t)
	return p0.Mul(h00).
		Add(m0.Mul(h10 * dt)).
		Add(p1.Mul(h01)).
		Add(m1.Mul(h11 * dt))
}

func (vectorMixer) finite(v mgl32.Vec3) bool {
	return common.IsFiniteVec3(v)
}

type quaternionMixer struct{}

func (quaternionMixer) lerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	return common.Nlerp(a, b, t)
}

func (quaternionMixer) hermite(t, dt float32, p0, m0, p1, m1 mgl32.Quat) mgl32.Quat {
	if p0.Dot(p1) < 0 {
		p1 = p1.Scale(-1)
		m1 = m1.Scale(-1)
	}
	h00, h10, h01, h11 := hermiteBasis(t)
	q := p0.Scale(h00).
		Add(m0.Scale(h10 * dt)).
		Add(p1.Scale(h01)).
		Add(m1.Scale(h11 * dt))
	return common.NormalizeQuat(q)
}

func (quaternionMixer) finite(q mgl32.Quat) bool {
	return common.IsFiniteQuat(q)
}

// hermiteBasis returns the four cubic Hermite basis weights at t.
func hermiteBasis(t float32) (h00, h10, h01, h11 float32) {
	t2 := t * t
	t3 := t2 * t
	h00 = 2*t3 - 3*t2 + 1
	h10 = t3 - 2*t2 + t
	h01 = -2*t3 + 3*t2
	h11 = t3 - t2
	return
}
