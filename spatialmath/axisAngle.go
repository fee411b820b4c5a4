package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// R4AA represents an R4 axis angle, an orientation expressed as a rotation axis (rx, ry, rz) on
// the unit sphere and a rotation theta (in radians) around that axis.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns the zero rotation, with the axis defaulted to z.
func NewR4AA() *R4AA {
	return &R4AA{Theta: 0, RX: 0, RY: 0, RZ: 1}
}

// AxisAngles returns the orientation in axis angle representation.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns the orientation in quaternion representation. An axis off the unit
// sphere is normalized first; a zero axis falls back to z.
func (r4 *R4AA) Quaternion() quat.Number {
	rx, ry, rz := r4.RX, r4.RY, r4.RZ
	if norm := math.Sqrt(rx*rx + ry*ry + rz*rz); norm == 0 {
		rx, ry, rz = 0, 0, 1
	} else if norm != 1 {
		rx, ry, rz = rx/norm, ry/norm, rz/norm
	}
	s, c := math.Sincos(r4.Theta / 2)
	return quat.Number{Real: c, Imag: rx * s, Jmag: ry * s, Kmag: rz * s}
}

// EulerAngles returns the orientation in Euler angle representation.
func (r4 *R4AA) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(r4.Quaternion())
}

// QuatToR4AA converts a quat to an R4 axis angle. The axis of a near-zero rotation is
// arbitrary and defaults to z.
func QuatToR4AA(q quat.Number) *R4AA {
	denom := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return &R4AA{angle, 0, 0, 1}
	}
	return &R4AA{angle, q.Imag / denom, q.Jmag / denom, q.Kmag / denom}
}
