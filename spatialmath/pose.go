// Package spatialmath defines spatial mathematical operations.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/armature-cad/armature/utils"
)

// Pose represents a 6dof pose, position and orientation, of an object or a frame of reference.
// It is represented internally as a dual quaternion and is immutable once created.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and an orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	q := newDualQuaternion()
	if o != nil {
		q.Real = o.Quaternion()
	}
	q.SetTranslation(p)
	return q
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a translation with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// NewPoseFromOrientation takes in an orientation and returns a Pose at the origin with
// that orientation.
func NewPoseFromOrientation(o Orientation) Pose {
	q := newDualQuaternion()
	if o != nil {
		q.Real = o.Quaternion()
	}
	return q
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the
// transform and returns a new Pose. Composition does not commute in general, i.e. you cannot
// guarantee ABx == BAx.
func Compose(a, b Pose) Pose {
	result := &dualQuaternion{dualQuaternionFromPose(a).Transformation(dualQuaternionFromPose(b).Number)}

	// Normalization
	if vecLen := quat.Abs(result.Real); vecLen != 1 {
		result.Real = quat.Scale(1/vecLen, result.Real)
	}
	return result
}

// PoseInverse returns the pose representing the opposite transformation, so that composing a
// pose with its inverse yields the zero pose.
func PoseInverse(p Pose) Pose {
	return dualQuaternionFromPose(p).Invert()
}

// PoseAlmostEqual checks if two poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps checks if two poses are approximately the same, with the given epsilon
// applied to the translation components.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns whether all elementwise
// differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
