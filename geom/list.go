package geom

import "github.com/echoflaresat/raycam/vectors"

// List is a flat aggregate scanned linearly on every query.
type List struct {
	Objects []Hittable
}

func NewList(objects ...Hittable) *List {
	return &List{Objects: objects}
}

func (l *List) Add(h Hittable) {
	l.Objects = append(l.Objects, h)
}

func (l *List) Clear() {
	l.Objects = nil
}

func (l *List) Len() int {
	return len(l.Objects)
}

// Hit returns the closest hit among all objects. After each accepted hit the
// upper bound shrinks to its t, so a later object must be strictly closer.
func (l *List) Hit(r vectors.Ray, rayT vectors.Interval) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, obj := range l.Objects {
		if rec, ok := obj.Hit(r, vectors.NewInterval(rayT.Min, closestSoFar)); ok {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}
	return closest, hitAnything
}
