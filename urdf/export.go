// Package urdf serializes robot kinematic structures into Universal Robot Description
// Format (URDF) XML files.
package urdf

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/armature-cad/armature/robot"
	"github.com/armature-cad/armature/spatialmath"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// ModelConfig represents the fields of a URDF file this package emits. Link geometry
// is not serialized; a model is its name and its joints.
type ModelConfig struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Joints  []joint  `xml:"joint"`
}

// joint is a struct which details the XML used in a URDF joint element. The element
// order parent, child, origin, axis is significant for the target schema.
type joint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  frame    `xml:"parent"`
	Child   frame    `xml:"child"`
	Origin  *pose    `xml:"origin"`
	Axis    *axis    `xml:"axis"`
}

// frame names a joint endpoint through its "joint" attribute.
type frame struct {
	Joint string `xml:"joint,attr"`
}

type axis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"` // "x y z" format
}

type pose struct {
	XMLName xml.Name `xml:"origin"`
	XYZ     string   `xml:"xyz,attr"` // "x y z" format, document units
	RPY     string   `xml:"rpy,attr"` // fixed frame angle "r p y" format, in radians
}

func newPose(p spatialmath.Pose) *pose {
	pt := p.Point()
	o := p.Orientation().EulerAngles()
	return &pose{
		XYZ: fmt.Sprintf("%g %g %g", pt.X, pt.Y, pt.Z),
		RPY: fmt.Sprintf("%g %g %g", o.Roll, o.Pitch, o.Yaw),
	}
}

// NewMissingEndpointError is used when a joint lacks a parent or child link.
func NewMissingEndpointError(jointName, endpoint string) error {
	return errors.Errorf("joint %q has no %s link", jointName, endpoint)
}

// newJoint builds the XML element for one joint. Both endpoints must be set. Axis
// customization is not supported; every joint is emitted with the z axis.
func newJoint(j *robot.Joint) (*joint, error) {
	if j.Parent() == nil {
		return nil, NewMissingEndpointError(j.Name(), "parent")
	}
	if j.Child() == nil {
		return nil, NewMissingEndpointError(j.Name(), "child")
	}
	if !j.Type().Valid() {
		return nil, robot.NewUnsupportedJointTypeError(int(j.Type()))
	}
	name, err := SanitizeName(j.Name())
	if err != nil {
		return nil, errors.Wrapf(err, "joint %q", j.Name())
	}
	parent, err := SanitizeName(j.Parent().Label())
	if err != nil {
		return nil, errors.Wrapf(err, "parent of joint %q", j.Name())
	}
	child, err := SanitizeName(j.Child().Label())
	if err != nil {
		return nil, errors.Wrapf(err, "child of joint %q", j.Name())
	}
	return &joint{
		Name:   name,
		Type:   j.Type().String(),
		Parent: frame{Joint: parent},
		Child:  frame{Joint: child},
		Origin: newPose(j.Origin()),
		Axis:   &axis{XYZ: "0 0 1"},
	}, nil
}

// NewModelConfig builds the URDF document for a robot: one joint element per grouped
// joint, in group order. Joints that cannot be exported are skipped and their errors
// combined; the partial model is still returned alongside them.
func NewModelConfig(r *robot.Robot) (*ModelConfig, error) {
	name, err := SanitizeName(r.Label())
	if err != nil {
		return nil, errors.Wrapf(err, "robot %q", r.Name())
	}
	cfg := &ModelConfig{Name: name}
	var errAll error
	for _, j := range r.Joints() {
		elem, err := newJoint(j)
		if err != nil {
			multierr.AppendInto(&errAll, err)
			continue
		}
		cfg.Joints = append(cfg.Joints, *elem)
	}
	return cfg, errAll
}

// Marshal renders the model as an indented URDF document with an XML declaration.
func Marshal(cfg *ModelConfig) ([]byte, error) {
	data, err := xml.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal URDF model")
	}
	return append([]byte(xml.Header), data...), nil
}

// WriteFile renders the model and writes it to path.
func WriteFile(path string, cfg *ModelConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	//nolint:gosec
	return os.WriteFile(path, data, 0o644)
}
