package document

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/armature-cad/armature/spatialmath"
)

// Object is a plain document entity, a solid, a container or a display proxy. It
// carries a placement, may link to another object and may hold member objects.
type Object struct {
	name      string
	label     string
	doc       *Document
	placement spatialmath.Pose
	linked    *Object
	members   []*Object
	inGroups  []*Object
}

// AddObject creates an object with the given name and registers it in the document.
func (d *Document) AddObject(name string) (*Object, error) {
	o := &Object{
		name:      name,
		label:     name,
		doc:       d,
		placement: spatialmath.NewZeroPose(),
	}
	if err := d.Add(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Name returns the immutable object name.
func (o *Object) Name() string {
	return o.name
}

// Label returns the display label, which defaults to the name.
func (o *Object) Label() string {
	return o.label
}

// SetLabel changes the display label.
func (o *Object) SetLabel(label string) {
	o.label = label
	o.doc.NotifyChanged(o, "Label")
}

// Placement returns the object's placement relative to its container.
func (o *Object) Placement() spatialmath.Pose {
	return o.placement
}

// SetPlacement changes the object's placement.
func (o *Object) SetPlacement(p spatialmath.Pose) {
	o.placement = p
	o.doc.NotifyChanged(o, "Placement")
}

// LinkedObject returns the object this object is a proxy for, or nil.
func (o *Object) LinkedObject() *Object {
	return o.linked
}

// SetLink makes this object a proxy displaying the given target.
func (o *Object) SetLink(target *Object) {
	o.linked = target
	o.doc.NotifyChanged(o, "LinkedObject")
}

// Members returns the objects contained in this one, in insertion order.
func (o *Object) Members() []*Object {
	return append([]*Object{}, o.members...)
}

// AddMember puts m inside this object. Adding an object twice is a no-op. An object
// may be a member of several containers at once, which makes its placement ambiguous.
func (o *Object) AddMember(m *Object) error {
	if m == o || m.reaches(o) {
		return NewMembershipCycleError(o.name, m.name)
	}
	if o.member(m.name) != nil {
		return nil
	}
	o.members = append(o.members, m)
	m.inGroups = append(m.inGroups, o)
	o.doc.NotifyChanged(o, "Group")
	return nil
}

// RemoveMember takes m out of this object. Removing a non-member is a no-op.
func (o *Object) RemoveMember(m *Object) {
	found := false
	for i, mm := range o.members {
		if mm == m {
			o.members = append(o.members[:i], o.members[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	for i, g := range m.inGroups {
		if g == o {
			m.inGroups = append(m.inGroups[:i], m.inGroups[i+1:]...)
			break
		}
	}
	o.doc.NotifyChanged(o, "Group")
}

// reaches reports whether target can be found by walking memberships down from o.
func (o *Object) reaches(target *Object) bool {
	for _, m := range o.members {
		if m == target || m.reaches(target) {
			return true
		}
	}
	return false
}

// member returns the direct member with the given name, or nil.
func (o *Object) member(name string) *Object {
	for _, m := range o.members {
		if m.name == name {
			return m
		}
	}
	return nil
}

// ObjectParent names a rootmost container of an object, together with the dotted path
// from that container down to the object itself.
type ObjectParent struct {
	Parent  *Object
	SubPath string
}

// Parents returns one entry per (rootmost container, path) pair leading to this
// object. A top level object has none; an object shared between containers has
// several.
func (o *Object) Parents() []ObjectParent {
	if len(o.inGroups) == 0 {
		return nil
	}
	var out []ObjectParent
	for _, g := range o.inGroups {
		gps := g.Parents()
		if len(gps) == 0 {
			out = append(out, ObjectParent{Parent: g, SubPath: o.name + "."})
			continue
		}
		for _, gp := range gps {
			out = append(out, ObjectParent{Parent: gp.Parent, SubPath: gp.SubPath + o.name + "."})
		}
	}
	return out
}

// SubObjectPlacement resolves the world placement of the entity at the given dotted
// path below this object, composing every placement along the chain including this
// object's own.
func (o *Object) SubObjectPlacement(subPath string) (spatialmath.Pose, error) {
	acc := o.placement
	trimmed := strings.TrimSuffix(subPath, ".")
	if trimmed == "" {
		return acc, nil
	}
	cur := o
	for _, segment := range strings.Split(trimmed, ".") {
		next := cur.member(segment)
		if next == nil {
			return nil, errors.Errorf("no object %q under %q", segment, cur.name)
		}
		acc = spatialmath.Compose(acc, next.placement)
		cur = next
	}
	return acc, nil
}

// ObjectConfig is the versioned snapshot record of an Object.
type ObjectConfig struct {
	Name      string                  `json:"name"`
	Label     string                  `json:"label,omitempty"`
	Placement *spatialmath.PoseConfig `json:"placement,omitempty"`
	Linked    string                  `json:"linked,omitempty"`
	Members   []string                `json:"members,omitempty"`
}

// Config snapshots the object. Member and link references are recorded by name.
func (o *Object) Config() *ObjectConfig {
	cfg := &ObjectConfig{
		Name:      o.name,
		Placement: spatialmath.NewPoseConfig(o.placement),
	}
	if o.label != o.name {
		cfg.Label = o.label
	}
	if o.linked != nil {
		cfg.Linked = o.linked.name
	}
	for _, m := range o.members {
		cfg.Members = append(cfg.Members, m.name)
	}
	return cfg
}

// RestoreObject rebuilds an object from its snapshot and registers it. References to
// other objects are resolved in a second pass via RestoreReferences, once every object
// in the snapshot exists.
func RestoreObject(d *Document, cfg *ObjectConfig) (*Object, error) {
	o, err := d.AddObject(cfg.Name)
	if err != nil {
		return nil, err
	}
	if cfg.Label != "" {
		o.label = cfg.Label
	}
	if cfg.Placement != nil {
		o.placement = cfg.Placement.ParseConfig()
	}
	return o, nil
}

// RestoreReferences resolves the linked object and the member names of a snapshot.
func (o *Object) RestoreReferences(cfg *ObjectConfig) error {
	if cfg.Linked != "" {
		target, ok := o.doc.Entity(cfg.Linked).(*Object)
		if !ok {
			return NewEntityNotFoundError(cfg.Linked)
		}
		o.linked = target
	}
	for _, name := range cfg.Members {
		m, ok := o.doc.Entity(name).(*Object)
		if !ok {
			return NewEntityNotFoundError(name)
		}
		if err := o.AddMember(m); err != nil {
			return err
		}
	}
	return nil
}
