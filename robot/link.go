package robot

import (
	"github.com/armature-cad/armature/document"
)

// Link describes one rigid body of a robot: the real solids it stands for, plus
// optional simplified visual and collision stand-ins. The owning robot derives one
// display proxy per referenced solid it is asked to show.
type Link struct {
	name  string
	label string
	doc   *document.Document
	robot *Robot

	real      []*document.Object
	visual    []*document.Object
	collision []*document.Object
}

// NewLink creates a link with empty part lists and registers it in the document.
func NewLink(d *document.Document, name string) (*Link, error) {
	l := &Link{
		name:  name,
		label: name,
		doc:   d,
	}
	if err := d.Add(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the immutable link name.
func (l *Link) Name() string {
	return l.name
}

// Label returns the display label, which defaults to the name.
func (l *Link) Label() string {
	return l.label
}

// SetLabel changes the display label.
func (l *Link) SetLabel(label string) {
	l.label = label
	l.doc.NotifyChanged(l, "Label")
}

// Robot returns the robot this link belongs to, or nil.
func (l *Link) Robot() *Robot {
	return l.robot
}

// Real returns the objects making up the link's real geometry, in order.
func (l *Link) Real() []*document.Object {
	return append([]*document.Object{}, l.real...)
}

// SetReal replaces the real part list. Proxies follow on the next reconciliation.
func (l *Link) SetReal(objs []*document.Object) {
	l.real = append([]*document.Object{}, objs...)
	l.doc.NotifyChanged(l, "Real")
}

// Visual returns the simplified display objects, in order.
func (l *Link) Visual() []*document.Object {
	return append([]*document.Object{}, l.visual...)
}

// SetVisual replaces the visual part list. Proxies follow on the next reconciliation.
func (l *Link) SetVisual(objs []*document.Object) {
	l.visual = append([]*document.Object{}, objs...)
	l.doc.NotifyChanged(l, "Visual")
}

// Collision returns the collision geometry objects, in order.
func (l *Link) Collision() []*document.Object {
	return append([]*document.Object{}, l.collision...)
}

// SetCollision replaces the collision part list. Proxies follow on the next
// reconciliation.
func (l *Link) SetCollision(objs []*document.Object) {
	l.collision = append([]*document.Object{}, objs...)
	l.doc.NotifyChanged(l, "Collision")
}

// Proxies returns the display proxies currently derived for this link, or nil for an
// unowned link.
func (l *Link) Proxies() []*document.Object {
	if l.robot == nil {
		return nil
	}
	return l.robot.proxiesForLink(l)
}
