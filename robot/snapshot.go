package robot

import (
	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/spatialmath"
)

// LinkConfig is the versioned snapshot record of a Link. Part references are recorded
// by object name.
type LinkConfig struct {
	Name      string   `json:"name"`
	Label     string   `json:"label,omitempty"`
	Real      []string `json:"real,omitempty"`
	Visual    []string `json:"visual,omitempty"`
	Collision []string `json:"collision,omitempty"`
}

// JointConfig is the versioned snapshot record of a Joint. The type is stored as its
// ordinal, endpoints by link name. The derived placement is not recorded.
type JointConfig struct {
	Name   string                  `json:"name"`
	Label  string                  `json:"label,omitempty"`
	Type   int                     `json:"type"`
	Parent string                  `json:"parent,omitempty"`
	Child  string                  `json:"child,omitempty"`
	Origin *spatialmath.PoseConfig `json:"origin,omitempty"`
}

// RobotConfig is the versioned snapshot record of a Robot together with the links and
// joints it groups. Derived proxies are never recorded; they are rebuilt by the first
// reconciliation after restore.
type RobotConfig struct {
	Name          string        `json:"name"`
	Label         string        `json:"label,omitempty"`
	ShowReal      bool          `json:"show_real"`
	ShowVisual    bool          `json:"show_visual"`
	ShowCollision bool          `json:"show_collision"`
	Assembly      string        `json:"assembly,omitempty"`
	OutputPath    string        `json:"output_path,omitempty"`
	Links         []LinkConfig  `json:"links,omitempty"`
	Joints        []JointConfig `json:"joints,omitempty"`
	Group         []string      `json:"group,omitempty"`
}

// Config snapshots the link.
func (l *Link) Config() *LinkConfig {
	cfg := &LinkConfig{Name: l.name}
	if l.label != l.name {
		cfg.Label = l.label
	}
	for _, o := range l.real {
		cfg.Real = append(cfg.Real, o.Name())
	}
	for _, o := range l.visual {
		cfg.Visual = append(cfg.Visual, o.Name())
	}
	for _, o := range l.collision {
		cfg.Collision = append(cfg.Collision, o.Name())
	}
	return cfg
}

// Config snapshots the joint.
func (j *Joint) Config() *JointConfig {
	cfg := &JointConfig{
		Name:   j.name,
		Type:   int(j.jointType),
		Origin: spatialmath.NewPoseConfig(j.origin),
	}
	if j.label != j.name {
		cfg.Label = j.label
	}
	if p := j.Parent(); p != nil {
		cfg.Parent = p.name
	}
	if c := j.Child(); c != nil {
		cfg.Child = c.name
	}
	return cfg
}

// Config snapshots the robot with its grouped links and joints.
func (r *Robot) Config() *RobotConfig {
	cfg := &RobotConfig{
		Name:          r.name,
		ShowReal:      r.showReal,
		ShowVisual:    r.showVisual,
		ShowCollision: r.showCollision,
		OutputPath:    r.outputPath,
	}
	if r.label != r.name {
		cfg.Label = r.label
	}
	if a := r.Assembly(); a != nil {
		cfg.Assembly = a.Name()
	}
	for _, e := range r.group {
		cfg.Group = append(cfg.Group, e.Name())
		switch m := e.(type) {
		case *Link:
			cfg.Links = append(cfg.Links, *m.Config())
		case *Joint:
			cfg.Joints = append(cfg.Joints, *m.Config())
		}
	}
	return cfg
}

// RestoreLink rebuilds a link from its snapshot. Part names resolve against objects
// already restored into the document.
func RestoreLink(d *document.Document, cfg *LinkConfig) (*Link, error) {
	l, err := NewLink(d, cfg.Name)
	if err != nil {
		return nil, err
	}
	if cfg.Label != "" {
		l.label = cfg.Label
	}
	if l.real, err = resolveObjects(d, cfg.Real); err != nil {
		return nil, err
	}
	if l.visual, err = resolveObjects(d, cfg.Visual); err != nil {
		return nil, err
	}
	if l.collision, err = resolveObjects(d, cfg.Collision); err != nil {
		return nil, err
	}
	return l, nil
}

// RestoreJoint rebuilds a joint from its snapshot. Endpoint names resolve against
// links already restored into the document.
func RestoreJoint(d *document.Document, cfg *JointConfig) (*Joint, error) {
	if !JointType(cfg.Type).Valid() {
		return nil, NewUnsupportedJointTypeError(cfg.Type)
	}
	j, err := NewJoint(d, cfg.Name)
	if err != nil {
		return nil, err
	}
	if cfg.Label != "" {
		j.label = cfg.Label
	}
	j.jointType = JointType(cfg.Type)
	if cfg.Parent != "" {
		l, ok := d.Entity(cfg.Parent).(*Link)
		if !ok {
			return nil, document.NewEntityNotFoundError(cfg.Parent)
		}
		j.parent = l
	}
	if cfg.Child != "" {
		l, ok := d.Entity(cfg.Child).(*Link)
		if !ok {
			return nil, document.NewEntityNotFoundError(cfg.Child)
		}
		j.child = l
	}
	if cfg.Origin != nil {
		j.origin = cfg.Origin.ParseConfig()
	}
	j.placement = j.computePlacement()
	return j, nil
}

// RestoreRobot rebuilds a robot, its links and its joints from a snapshot. The group
// is wired while the robot is still detached, so no reconciliation runs mid restore;
// proxies reappear on the first recompute after.
func RestoreRobot(d *document.Document, cfg *RobotConfig) (*Robot, error) {
	r := &Robot{
		name:          cfg.Name,
		label:         cfg.Name,
		logger:        d.Logger(),
		showReal:      cfg.ShowReal,
		showVisual:    cfg.ShowVisual,
		showCollision: cfg.ShowCollision,
		outputPath:    cfg.OutputPath,
	}
	if cfg.Label != "" {
		r.label = cfg.Label
	}
	if cfg.Assembly != "" {
		o, ok := d.Entity(cfg.Assembly).(*document.Object)
		if !ok {
			return nil, document.NewEntityNotFoundError(cfg.Assembly)
		}
		r.assembly = o
	}
	members := map[string]document.Entity{}
	for i := range cfg.Links {
		l, err := RestoreLink(d, &cfg.Links[i])
		if err != nil {
			return nil, err
		}
		l.robot = r
		members[l.name] = l
	}
	for i := range cfg.Joints {
		j, err := RestoreJoint(d, &cfg.Joints[i])
		if err != nil {
			return nil, err
		}
		members[j.name] = j
	}
	for _, name := range cfg.Group {
		e := members[name]
		if e == nil {
			e = d.Entity(name)
		}
		if e == nil {
			return nil, document.NewEntityNotFoundError(name)
		}
		r.group = append(r.group, e)
	}
	r.doc = d
	if err := d.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// resolveObjects maps object names back to the live objects of the document.
func resolveObjects(d *document.Document, names []string) ([]*document.Object, error) {
	var out []*document.Object
	for _, name := range names {
		o, ok := d.Entity(name).(*document.Object)
		if !ok {
			return nil, document.NewEntityNotFoundError(name)
		}
		out = append(out, o)
	}
	return out, nil
}
