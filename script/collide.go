package script

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// CollideKind is the tag byte of a collision descriptor.
type CollideKind byte

const (
	CollideCircle CollideKind = 0
	CollideRect   CollideKind = 1
	CollideNone   CollideKind = 2
)

var collideArity = map[CollideKind]int{
	CollideCircle: 1,
	CollideRect:   2,
	CollideNone:   0,
}

var collideNames = map[CollideKind]string{
	CollideCircle: "circle",
	CollideRect:   "rect",
	CollideNone:   "none",
}

// Arity returns how many float operands follow the tag.
func (k CollideKind) Arity() (int, bool) {
	n, ok := collideArity[k]
	return n, ok
}

func (k CollideKind) String() string {
	if n, ok := collideNames[k]; ok {
		return n
	}
	return fmt.Sprintf("collide(%d)", byte(k))
}

// CollideKindByName resolves "circle", "rect" or "none".
func CollideKindByName(name string) (CollideKind, bool) {
	for k, n := range collideNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Collide describes the shape an entity collides with. Resolution of the
// collision itself belongs to the host.
type Collide struct {
	Kind CollideKind
	Args []float32
}

// NewCollide checks the argument count against the kind.
func NewCollide(kind CollideKind, args []float32) (Collide, error) {
	n, ok := kind.Arity()
	if !ok {
		return Collide{}, fmt.Errorf("unknown collide kind %d", byte(kind))
	}
	if len(args) != n {
		return Collide{}, fmt.Errorf("collide %s takes %d args, got %d", kind, n, len(args))
	}
	return Collide{Kind: kind, Args: args}, nil
}

// Bounds returns the bounding box of the shape centered at (x, y).
func (c Collide) Bounds(x, y float32) cp.BB {
	cx, cy := float64(x), float64(y)
	switch c.Kind {
	case CollideCircle:
		if len(c.Args) == 1 {
			return cp.NewBBForCircle(cp.Vector{X: cx, Y: cy}, float64(c.Args[0]))
		}
	case CollideRect:
		if len(c.Args) == 2 {
			return cp.NewBBForExtents(cp.Vector{X: cx, Y: cy}, float64(c.Args[0])/2, float64(c.Args[1])/2)
		}
	}
	return cp.NewBBForExtents(cp.Vector{X: cx, Y: cy}, 0, 0)
}

func (c Collide) String() string {
	return fmt.Sprintf("%s%v", c.Kind, c.Args)
}
