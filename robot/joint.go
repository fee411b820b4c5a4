package robot

import (
	"fmt"

	"github.com/edaniels/golog"

	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/spatialmath"
)

// JointType enumerates the supported kinds of joint. Values are persisted by their
// ordinal; append new types at the end, never reorder or remove existing ones.
type JointType int

const (
	// FixedJoint allows no relative motion between parent and child.
	FixedJoint JointType = iota
	// RevoluteJoint rotates about its axis.
	RevoluteJoint
	// PrismaticJoint slides along its axis.
	PrismaticJoint
)

// String returns the URDF name of the joint type.
func (t JointType) String() string {
	switch t {
	case FixedJoint:
		return "fixed"
	case RevoluteJoint:
		return "revolute"
	case PrismaticJoint:
		return "prismatic"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Valid reports whether t is one of the supported joint types.
func (t JointType) Valid() bool {
	return t >= FixedJoint && t <= PrismaticJoint
}

// Joint relates a parent link to a child link through an origin transform expressed in
// the parent frame. Its placement, the world pose of the joint frame, is derived state
// and never authoritative.
type Joint struct {
	name   string
	label  string
	doc    *document.Document
	logger golog.Logger

	jointType JointType
	parent    *Link
	child     *Link
	origin    spatialmath.Pose
	placement spatialmath.Pose
}

// NewJoint creates a fixed joint with an identity origin and registers it in the
// document.
func NewJoint(d *document.Document, name string) (*Joint, error) {
	j := &Joint{
		name:      name,
		label:     name,
		doc:       d,
		logger:    d.Logger(),
		jointType: FixedJoint,
		origin:    spatialmath.NewZeroPose(),
		placement: spatialmath.NewZeroPose(),
	}
	if err := d.Add(j); err != nil {
		return nil, err
	}
	return j, nil
}

// Name returns the immutable joint name.
func (j *Joint) Name() string {
	return j.name
}

// Label returns the display label, which defaults to the name.
func (j *Joint) Label() string {
	return j.label
}

// SetLabel changes the display label.
func (j *Joint) SetLabel(label string) {
	j.label = label
	j.doc.NotifyChanged(j, "Label")
}

// Type returns the kind of joint.
func (j *Joint) Type() JointType {
	return j.jointType
}

// SetType changes the kind of joint.
func (j *Joint) SetType(t JointType) error {
	if !t.Valid() {
		return NewUnsupportedJointTypeError(int(t))
	}
	j.jointType = t
	j.doc.NotifyChanged(j, "Type")
	return nil
}

// Parent returns the parent link, or nil if unset or deleted from the document.
func (j *Joint) Parent() *Link {
	return j.liveLink(j.parent)
}

// SetParent changes the parent link. Passing nil detaches it.
func (j *Joint) SetParent(l *Link) {
	j.parent = l
	j.doc.NotifyChanged(j, "Parent")
	j.placement = j.computePlacement()
}

// Child returns the child link, or nil if unset or deleted from the document.
func (j *Joint) Child() *Link {
	return j.liveLink(j.child)
}

// SetChild changes the child link. Passing nil detaches it.
func (j *Joint) SetChild(l *Link) {
	j.child = l
	j.doc.NotifyChanged(j, "Child")
}

// Origin returns the joint transform in the parent frame.
func (j *Joint) Origin() spatialmath.Pose {
	return j.origin
}

// SetOrigin changes the joint transform in the parent frame.
func (j *Joint) SetOrigin(p spatialmath.Pose) {
	j.origin = p
	j.doc.NotifyChanged(j, "Origin")
	j.placement = j.computePlacement()
}

// Placement returns the derived world pose of the joint frame, as of the last
// recompute.
func (j *Joint) Placement() spatialmath.Pose {
	return j.placement
}

// Recompute refreshes the derived placement from the parent link's world pose.
func (j *Joint) Recompute() error {
	j.placement = j.computePlacement()
	return nil
}

// computePlacement composes the world placement of the parent link's first real part
// with the joint origin. Without a parent, or with a parent without real parts, the
// origin stands alone.
func (j *Joint) computePlacement() spatialmath.Pose {
	parent := j.Parent()
	if parent == nil || len(parent.real) == 0 {
		return j.origin
	}
	base := worldPlacement(parent.real[0], j.logger)
	return spatialmath.Compose(base, j.origin)
}

// liveLink resolves a stored link reference, treating a link deleted from the
// document as unset.
func (j *Joint) liveLink(l *Link) *Link {
	if l == nil {
		return nil
	}
	if got, ok := j.doc.Entity(l.Name()).(*Link); !ok || got != l {
		return nil
	}
	return l
}
