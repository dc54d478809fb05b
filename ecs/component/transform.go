package component

import "github.com/milk9111/danmaku/script"

// Transform is an entity's position in the arena. Z is the draw layer.
type Transform struct {
	X     float32
	Y     float32
	Z     float32
	Angle float32
}

// Vec returns the translation scripts address as self.x/y/z.
func (t *Transform) Vec() script.Vec3 {
	return script.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

// SetVec writes a translation back.
func (t *Transform) SetVec(v script.Vec3) {
	t.X, t.Y, t.Z = v.X, v.Y, v.Z
}

var TransformComponent = NewComponent[Transform]()
