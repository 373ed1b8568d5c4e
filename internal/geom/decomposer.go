package geom

import "gonum.org/v1/gonum/spatial/r3"

// Decomposer splits 3D points and vectors into a component normal to an
// oriented plane and a 2D projection on it. The frame is given by an
// origin R and two orthonormal axes A ("main") and B ("secondary"); the
// normal is N = A x B, so (A, B, N) is a positive orthonormal triple.
//
// A point P decomposes into distance d = (P-R)·N and projection
// (a, b) = ((P-R)·A, (P-R)·B); composition is the exact inverse,
// P = R + d·N + a·A + b·B. Vectors decompose the same way without the
// origin offset. The decomposition is a pure linear map; it is the
// caller's contract that the axes are orthonormal (the plane frame
// constructors below always build them that way).
type Decomposer struct {
	origin    r3.Vec
	main      r3.Vec
	secondary r3.Vec
	normal    r3.Vec
}

// NewDecomposer builds a decomposer on the frame anchored at origin with
// the given main and secondary axes. The axes are normalized; the normal
// is their cross product.
func NewDecomposer(origin, main, secondary r3.Vec) Decomposer {
	m := r3.Unit(main)
	s := r3.Unit(secondary)
	return Decomposer{
		origin:    origin,
		main:      m,
		secondary: s,
		normal:    r3.Unit(r3.Cross(m, s)),
	}
}

// Projection is a 2D vector on the decomposition plane, with components
// along the main and secondary axes.
type Projection struct {
	Main      float64
	Secondary float64
}

// DecomposedVector is a full decomposition: the signed distance along
// the normal and the 2D projection on the plane.
type DecomposedVector struct {
	Distance   float64
	Projection Projection
}

// ReferencePoint returns the frame origin: the point whose decomposition
// is all zeroes.
func (d Decomposer) ReferencePoint() r3.Vec { return d.origin }

// MainDir returns the main axis of the frame.
func (d Decomposer) MainDir() r3.Vec { return d.main }

// SecondaryDir returns the secondary axis of the frame.
func (d Decomposer) SecondaryDir() r3.Vec { return d.secondary }

// NormalDir returns the normal axis of the frame.
func (d Decomposer) NormalDir() r3.Vec { return d.normal }

// PointNormalComponent returns the signed distance of the point from the
// plane.
func (d Decomposer) PointNormalComponent(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, d.origin), d.normal)
}

// PointMainComponent returns the point coordinate along the main axis.
func (d Decomposer) PointMainComponent(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, d.origin), d.main)
}

// PointSecondaryComponent returns the point coordinate along the
// secondary axis.
func (d Decomposer) PointSecondaryComponent(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, d.origin), d.secondary)
}

// VectorNormalComponent returns the vector component along the normal.
func (d Decomposer) VectorNormalComponent(v r3.Vec) float64 {
	return r3.Dot(v, d.normal)
}

// VectorMainComponent returns the vector component along the main axis.
func (d Decomposer) VectorMainComponent(v r3.Vec) float64 {
	return r3.Dot(v, d.main)
}

// VectorSecondaryComponent returns the vector component along the
// secondary axis.
func (d Decomposer) VectorSecondaryComponent(v r3.Vec) float64 {
	return r3.Dot(v, d.secondary)
}

// ProjectPointOnPlane returns the 2D projection of the point, relative
// to the frame origin.
func (d Decomposer) ProjectPointOnPlane(p r3.Vec) Projection {
	rel := r3.Sub(p, d.origin)
	return Projection{Main: r3.Dot(rel, d.main), Secondary: r3.Dot(rel, d.secondary)}
}

// ProjectVectorOnPlane returns the 2D projection of the vector.
func (d Decomposer) ProjectVectorOnPlane(v r3.Vec) Projection {
	return Projection{Main: r3.Dot(v, d.main), Secondary: r3.Dot(v, d.secondary)}
}

// DecomposePoint splits the point into normal distance and projection.
func (d Decomposer) DecomposePoint(p r3.Vec) DecomposedVector {
	return DecomposedVector{
		Distance:   d.PointNormalComponent(p),
		Projection: d.ProjectPointOnPlane(p),
	}
}

// DecomposeVector splits the vector into normal component and projection.
func (d Decomposer) DecomposeVector(v r3.Vec) DecomposedVector {
	return DecomposedVector{
		Distance:   d.VectorNormalComponent(v),
		Projection: d.ProjectVectorOnPlane(v),
	}
}

// ComposePoint rebuilds the 3D point whose decomposition is the given
// distance and projection.
func (d Decomposer) ComposePoint(distance float64, proj Projection) r3.Vec {
	return r3.Add(d.origin, d.ComposeVector(distance, proj))
}

// ComposePointFrom rebuilds the 3D point from a full decomposition.
func (d Decomposer) ComposePointFrom(dec DecomposedVector) r3.Vec {
	return d.ComposePoint(dec.Distance, dec.Projection)
}

// ComposeVector rebuilds the 3D vector whose decomposition is the given
// normal component and projection.
func (d Decomposer) ComposeVector(distance float64, proj Projection) r3.Vec {
	v := r3.Scale(distance, d.normal)
	v = r3.Add(v, r3.Scale(proj.Main, d.main))
	return r3.Add(v, r3.Scale(proj.Secondary, d.secondary))
}

// ComposeVectorFrom rebuilds the 3D vector from a full decomposition.
func (d Decomposer) ComposeVectorFrom(dec DecomposedVector) r3.Vec {
	return d.ComposeVector(dec.Distance, dec.Projection)
}
