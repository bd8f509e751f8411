package scene

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func boxApprox(a, b Box) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.W, b.W) && approx(a.H, b.H)
}

func TestBoxUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want Box
	}{
		{"disjoint", Box{0, 0, 10, 10}, Box{20, -5, 5, 5}, Box{0, -5, 25, 15}},
		{"zero left", Box{}, Box{1, 2, 3, 4}, Box{1, 2, 3, 4}},
		{"zero right", Box{1, 2, 3, 4}, Box{}, Box{1, 2, 3, 4}},
		{"vertical line", Box{5, -10, 0, 10}, Box{0, 0, 2, 2}, Box{0, -10, 5, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); !boxApprox(got, tt.want) {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name   string
		x1, x2 float64
		want   string
		height float64
	}{
		{"within radius", 0, 20, "M0,0 A20,10 0 0,1 20,0", 10 - 10*math.Sqrt(0.75)},
		{"radius corrected", 0, 100, "M0,0 A20,10 0 0,1 100,0", 25},
		{"exact diameter", 3, 43, "M3,0 A20,10 0 0,1 43,0", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, b := ArcPath(tt.x1, tt.x2, 20, 10)
			if d != tt.want {
				t.Errorf("d = %q, want %q", d, tt.want)
			}
			want := Box{X: tt.x1, Y: -tt.height, W: tt.x2 - tt.x1, H: tt.height}
			if !boxApprox(b, want) {
				t.Errorf("bounds = %+v, want %+v", b, want)
			}
		})
	}
}

func TestArcHeightGrowsWithDistance(t *testing.T) {
	prev := 0.0
	for _, dist := range []float64{5, 10, 20, 39, 40, 41, 80, 200} {
		_, b := ArcPath(0, dist, 20, 10)
		if b.H < prev {
			t.Errorf("height at distance %v = %v, smaller than %v", dist, b.H, prev)
		}
		prev = b.H
	}
}

func TestVerticalPathAndArrowhead(t *testing.T) {
	d, b := VerticalPath(30, 12.5)
	if d != "M30,-12.5 L30,0" {
		t.Errorf("d = %q", d)
	}
	if b != (Box{X: 30, Y: -12.5, W: 0, H: 12.5}) {
		t.Errorf("bounds = %+v", b)
	}

	p := &Polygon{Points: Arrowhead(30)}
	if got := p.PointsAttr(); got != "30,1 31,-1 30,0 29,-1" {
		t.Errorf("PointsAttr() = %q", got)
	}
	if got := p.Bounds(); got != (Box{X: 29, Y: -1, W: 2, H: 2}) {
		t.Errorf("arrow bounds = %+v", got)
	}
}

func TestGroupBounds(t *testing.T) {
	inner := NewGroup("inner")
	inner.Transform = Transform{TX: 10, TY: 5, Scale: 2}
	inner.Append(&Path{ID: "p", Box: Box{0, 0, 4, 4}})

	outer := NewGroup("outer")
	outer.Transform = Transform{TX: 1000}
	outer.Append(inner, &Text{ID: "t", Box: Box{-2, -2, 1, 1}})

	if got := NewGroup("empty").Bounds(); got != (Box{}) {
		t.Errorf("empty group bounds = %+v", got)
	}
	if got := inner.Bounds(); got != (Box{0, 0, 4, 4}) {
		t.Errorf("inner bounds = %+v (own transform must not apply)", got)
	}
	if got := outer.Bounds(); got != (Box{-2, -2, 20, 15}) {
		t.Errorf("outer bounds = %+v", got)
	}

	if outer.Find("p") == nil || outer.Find("missing") != nil {
		t.Error("Find() should locate nested nodes only")
	}

	var ids []string
	outer.Walk(func(n Node) bool {
		ids = append(ids, n.NodeID())
		return true
	})
	if len(ids) != 4 {
		t.Errorf("Walk visited %v", ids)
	}
}

func TestTransformString(t *testing.T) {
	tests := []struct {
		tr   Transform
		want string
	}{
		{Transform{}, ""},
		{Transform{TX: 12.5, TY: 40}, "translate(12.5 40)"},
		{Transform{Scale: 0.75}, "scale(0.75 0.75)"},
		{Transform{TX: -3, TY: 0, Scale: 2}, "translate(-3 0) scale(2 2)"},
	}
	for _, tt := range tests {
		if got := tt.tr.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.tr, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tenth := 0.1
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{3, "3"},
		{-1.5, "-1.5"},
		{tenth + 0.2, "0.30000000000000004"},
		{1234567.25, "1234567.25"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
