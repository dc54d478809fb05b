package script

import "testing"

func TestCollide(t *testing.T) {
	c, err := NewCollide(CollideCircle, []float32{10})
	if err != nil {
		t.Fatal(err)
	}
	bb := c.Bounds(100, 50)
	if bb.L != 90 || bb.R != 110 || bb.B != 40 || bb.T != 60 {
		t.Fatalf("unexpected circle bounds %+v", bb)
	}

	r, err := NewCollide(CollideRect, []float32{4, 8})
	if err != nil {
		t.Fatal(err)
	}
	bb = r.Bounds(0, 0)
	if bb.L != -2 || bb.R != 2 || bb.B != -4 || bb.T != 4 {
		t.Fatalf("unexpected rect bounds %+v", bb)
	}

	if _, err := NewCollide(CollideRect, []float32{1}); err == nil {
		t.Fatal("expected arity error")
	}
	if _, err := NewCollide(CollideKind(9), nil); err == nil {
		t.Fatal("expected unknown kind error")
	}
	if k, ok := CollideKindByName("none"); !ok || k != CollideNone {
		t.Fatalf("unexpected kind %v", k)
	}
}
