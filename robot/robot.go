// Package robot models a robot kinematic structure inside a document: links binding
// solids to rigid bodies, joints relating links, and the display proxies a robot
// derives from its links.
package robot

import (
	"github.com/edaniels/golog"

	"github.com/armature-cad/armature/document"
)

// Robot is the kinematic structure entity. It owns an ordered group of links, joints
// and helper objects, three display flags choosing which level of detail to show, and
// the display proxies derived from the two. The proxies are pure derived state; the
// group and the flags are the source of truth.
type Robot struct {
	name   string
	label  string
	doc    *document.Document
	logger golog.Logger

	group    []document.Entity
	assembly *document.Object

	showReal      bool
	showVisual    bool
	showCollision bool

	outputPath string

	proxies   []proxyRecord
	resetting bool
}

// proxyRecord ties a derived display proxy to the link and source object that earn it.
type proxyRecord struct {
	object *document.Object
	link   *Link
	source *document.Object
}

// NewRobot creates a robot showing real parts only and registers it in the document.
func NewRobot(d *document.Document, name string) (*Robot, error) {
	r := &Robot{
		name:     name,
		label:    name,
		doc:      d,
		logger:   d.Logger(),
		showReal: true,
	}
	if err := d.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Name returns the immutable robot name.
func (r *Robot) Name() string {
	return r.name
}

// Label returns the display label, which defaults to the name.
func (r *Robot) Label() string {
	return r.label
}

// SetLabel changes the display label.
func (r *Robot) SetLabel(label string) {
	r.label = label
	r.doc.NotifyChanged(r, "Label")
}

// Assembly returns the externally owned assembly this robot's geometry lives in, or
// nil if none is set or the object was deleted from the document.
func (r *Robot) Assembly() *document.Object {
	if r.assembly == nil {
		return nil
	}
	if got, ok := r.doc.Entity(r.assembly.Name()).(*document.Object); !ok || got != r.assembly {
		return nil
	}
	return r.assembly
}

// SetAssembly changes the assembly reference. Passing nil detaches it. The assembly is
// informational; reconciliation never touches it.
func (r *Robot) SetAssembly(o *document.Object) {
	r.assembly = o
	r.doc.NotifyChanged(r, "Assembly")
}

// OutputPath returns the directory URDF exports of this robot default to.
func (r *Robot) OutputPath() string {
	return r.outputPath
}

// SetOutputPath changes the default export directory.
func (r *Robot) SetOutputPath(path string) {
	r.outputPath = path
	r.doc.NotifyChanged(r, "OutputPath")
}

// ShowReal returns whether proxies for the real parts are shown.
func (r *Robot) ShowReal() bool {
	return r.showReal
}

// SetShowReal toggles display of the real parts and reconciles the proxies.
func (r *Robot) SetShowReal(show bool) {
	r.showReal = show
	r.doc.NotifyChanged(r, "ShowReal")
	r.ResetGroup()
}

// ShowVisual returns whether proxies for the visual parts are shown.
func (r *Robot) ShowVisual() bool {
	return r.showVisual
}

// SetShowVisual toggles display of the visual parts and reconciles the proxies.
func (r *Robot) SetShowVisual(show bool) {
	r.showVisual = show
	r.doc.NotifyChanged(r, "ShowVisual")
	r.ResetGroup()
}

// ShowCollision returns whether proxies for the collision parts are shown.
func (r *Robot) ShowCollision() bool {
	return r.showCollision
}

// SetShowCollision toggles display of the collision parts and reconciles the proxies.
func (r *Robot) SetShowCollision(show bool) {
	r.showCollision = show
	r.doc.NotifyChanged(r, "ShowCollision")
	r.ResetGroup()
}

// Group returns the robot's members in order.
func (r *Robot) Group() []document.Entity {
	return append([]document.Entity{}, r.group...)
}

// Add appends a member to the robot's group and reconciles the proxies. Adding a
// member twice is a no-op. A link may belong to only one robot at a time.
func (r *Robot) Add(e document.Entity) error {
	for _, m := range r.group {
		if m == e {
			return nil
		}
	}
	if l, ok := e.(*Link); ok {
		if l.robot != nil && l.robot != r {
			return NewLinkOwnedError(l.name, l.robot.name)
		}
		l.robot = r
	}
	r.group = append(r.group, e)
	r.doc.NotifyChanged(r, "Group")
	r.ResetGroup()
	return nil
}

// Remove takes a member out of the robot's group and reconciles, destroying any
// proxies the member no longer earns. Removing a non-member is a no-op.
func (r *Robot) Remove(e document.Entity) {
	for i, m := range r.group {
		if m != e {
			continue
		}
		r.group = append(r.group[:i], r.group[i+1:]...)
		if l, ok := e.(*Link); ok && l.robot == r {
			l.robot = nil
		}
		r.doc.NotifyChanged(r, "Group")
		r.ResetGroup()
		return
	}
}

// Links returns the link members in group order.
func (r *Robot) Links() []*Link {
	var out []*Link
	for _, e := range r.group {
		if l, ok := e.(*Link); ok {
			out = append(out, l)
		}
	}
	return out
}

// Joints returns the joint members in group order.
func (r *Robot) Joints() []*Joint {
	var out []*Joint
	for _, e := range r.group {
		if j, ok := e.(*Joint); ok {
			out = append(out, j)
		}
	}
	return out
}

// Proxies returns every display proxy the robot currently derives, in derivation
// order.
func (r *Robot) Proxies() []*document.Object {
	out := make([]*document.Object, 0, len(r.proxies))
	for _, rec := range r.proxies {
		out = append(out, rec.object)
	}
	return out
}

// Recompute reconciles the display proxies as part of the document's pass.
func (r *Robot) Recompute() error {
	r.ResetGroup()
	return nil
}

// ResetGroup rebuilds the derived display proxies so that exactly the proxies demanded
// by the current links and display flags exist, creating the missing ones and
// destroying the stale ones. The pass is idempotent. A robot not yet attached to a
// document does nothing, and reentrant calls, such as a notification observer toggling
// a flag mid pass, are ignored.
func (r *Robot) ResetGroup() {
	if r.doc == nil || r.resetting {
		return
	}
	r.resetting = true
	defer func() { r.resetting = false }()

	// drop group members deleted out from under us; their proxies turn stale below
	var members []document.Entity
	for _, e := range r.group {
		if r.doc.Entity(e.Name()) != e {
			if l, ok := e.(*Link); ok && l.robot == r {
				l.robot = nil
			}
			continue
		}
		members = append(members, e)
	}
	r.group = members

	// drop records of proxies deleted out from under us so they are derived again
	var live []proxyRecord
	for _, rec := range r.proxies {
		if obj, ok := r.doc.Entity(rec.object.Name()).(*document.Object); ok && obj == rec.object {
			live = append(live, rec)
		}
	}
	r.proxies = live

	links := r.Links()
	demanded := make([]proxyRecord, 0, len(r.proxies))
	kept := map[*document.Object]bool{}

	demand := func(category string, l *Link, source *document.Object) {
		// a proxy under any category satisfies the demand, one derived earlier in
		// this same pass included
		for i := range demanded {
			if demanded[i].link == l && demanded[i].source == source {
				return
			}
		}
		if rec := r.findProxy(l, source); rec != nil {
			kept[rec.object] = true
			demanded = append(demanded, *rec)
			return
		}
		name := r.doc.NextName(category + "_" + l.Name())
		proxy, err := r.doc.AddObject(name)
		if err != nil {
			r.logger.Errorw("cannot create display proxy", "link", l.Name(), "error", err)
			return
		}
		proxy.SetLink(source)
		proxy.SetPlacement(resolveSourcePlacement(source, r.logger))
		kept[proxy] = true
		demanded = append(demanded, proxyRecord{object: proxy, link: l, source: source})
	}

	if r.showReal {
		for _, l := range links {
			for _, o := range l.Real() {
				demand("real", l, o)
			}
		}
	}
	if r.showVisual {
		for _, l := range links {
			for _, o := range l.Visual() {
				demand("visual", l, o)
			}
		}
	}
	if r.showCollision {
		for _, l := range links {
			for _, o := range l.Collision() {
				demand("collision", l, o)
			}
		}
	}

	// destroy stale proxies, those demanded by no grouped link under any shown category
	for _, rec := range r.proxies {
		if kept[rec.object] {
			continue
		}
		if err := r.doc.Remove(rec.object.Name()); err != nil {
			r.logger.Errorw("cannot remove stale display proxy", "proxy", rec.object.Name(), "error", err)
		}
	}
	r.proxies = demanded
}

// findProxy returns the record of the proxy already derived for the (link, source)
// pair, regardless of the category that created it.
func (r *Robot) findProxy(l *Link, source *document.Object) *proxyRecord {
	for i := range r.proxies {
		rec := &r.proxies[i]
		if rec.link == l && rec.source == source {
			return rec
		}
	}
	return nil
}

// proxiesForLink returns the derived proxies belonging to the given link.
func (r *Robot) proxiesForLink(l *Link) []*document.Object {
	var out []*document.Object
	for _, rec := range r.proxies {
		if rec.link == l {
			out = append(out, rec.object)
		}
	}
	return out
}
