package geom

import (
	"math"
	"testing"

	"github.com/echoflaresat/raycam/random"
	"github.com/echoflaresat/raycam/vectors"
)

func TestEmptyListMisses(t *testing.T) {
	l := NewList()
	r := vectors.NewRay(vectors.Zero(), vectors.New(0, 0, -1))
	if _, ok := l.Hit(r, forward); ok {
		t.Error("empty list should never hit")
	}
}

func TestListReturnsClosest(t *testing.T) {
	far := NewSphere(vectors.New(0, 0, -10), 1, nil)
	near := NewSphere(vectors.New(0, 0, -3), 1, nil)
	r := vectors.NewRay(vectors.Zero(), vectors.New(0, 0, -1))

	// order must not matter
	for _, l := range []*List{NewList(far, near), NewList(near, far)} {
		rec, ok := l.Hit(r, forward)
		if !ok {
			t.Fatal("expected hit")
		}
		if math.Abs(rec.T-2) > 1e-9 {
			t.Errorf("t = %v, want 2", rec.T)
		}
	}
}

func TestListMatchesIndividualMinimum(t *testing.T) {
	rng := random.New(99, 1)
	l := NewList()
	var spheres []*Sphere
	for i := 0; i < 40; i++ {
		s := NewSphere(vectors.RandomRange(rng, -5, 5), rng.Range(0.2, 1.5), nil)
		spheres = append(spheres, s)
		l.Add(s)
	}
	if l.Len() != 40 {
		t.Fatalf("Len = %d", l.Len())
	}

	for i := 0; i < 500; i++ {
		r := vectors.NewRay(vectors.RandomRange(rng, -6, 6), vectors.RandomUnit(rng))
		rayT := vectors.NewInterval(0.001, rng.Range(1, 20))

		want := math.Inf(1)
		for _, s := range spheres {
			if rec, ok := s.Hit(r, rayT); ok && rec.T < want {
				want = rec.T
			}
		}

		rec, ok := l.Hit(r, rayT)
		if math.IsInf(want, 1) {
			if ok {
				t.Fatalf("list hit at %v but no sphere does", rec.T)
			}
			continue
		}
		if !ok || rec.T != want {
			t.Fatalf("list t = %v (%v), want %v", rec.T, ok, want)
		}
	}
}

func TestListClear(t *testing.T) {
	l := NewList(NewSphere(vectors.New(0, 0, -2), 1, nil))
	l.Clear()
	r := vectors.NewRay(vectors.Zero(), vectors.New(0, 0, -1))
	if _, ok := l.Hit(r, forward); ok {
		t.Error("cleared list should not hit")
	}
}
