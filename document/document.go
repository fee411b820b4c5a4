// Package document implements an in-memory parametric document, a flat collection of
// named entities with change notification and recompute traversal.
package document

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Entity is anything that can live in a document.
type Entity interface {
	Name() string
	Label() string
}

// Computable is implemented by entities carrying derived state that must be rebuilt
// when the document recomputes.
type Computable interface {
	Recompute() error
}

// Observer receives synchronous notifications about document changes. Observers run on
// the mutating goroutine and before the mutating call returns.
type Observer interface {
	EntityAdded(e Entity)
	EntityRemoved(e Entity)
	PropertyChanged(e Entity, property string)
}

// Document is a flat collection of uniquely named entities. It is not safe for
// concurrent use.
type Document struct {
	name      string
	id        uuid.UUID
	logger    golog.Logger
	entities  map[string]Entity
	order     []string
	observers []Observer
}

// NewDocument creates an empty document.
func NewDocument(name string, logger golog.Logger) *Document {
	return NewDocumentWithID(name, uuid.New(), logger)
}

// NewDocumentWithID creates an empty document with the given identity, for restoring a
// saved project.
func NewDocumentWithID(name string, id uuid.UUID, logger golog.Logger) *Document {
	return &Document{
		name:     name,
		id:       id,
		logger:   logger,
		entities: map[string]Entity{},
	}
}

// Name returns the document name.
func (d *Document) Name() string {
	return d.name
}

// ID returns the document identity.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Logger returns the logger entities in this document report through.
func (d *Document) Logger() golog.Logger {
	return d.logger
}

// Add registers an entity under its name.
func (d *Document) Add(e Entity) error {
	name := e.Name()
	if name == "" {
		return ErrEmptyName
	}
	if _, ok := d.entities[name]; ok {
		return NewNameTakenError(name)
	}
	d.entities[name] = e
	d.order = append(d.order, name)
	for _, o := range d.snapshotObservers() {
		o.EntityAdded(e)
	}
	return nil
}

// Remove deletes the named entity. A removed object is detached from any containers
// and its own members are released before observers hear about the removal.
func (d *Document) Remove(name string) error {
	e, ok := d.entities[name]
	if !ok {
		return NewEntityNotFoundError(name)
	}
	if o, isObject := e.(*Object); isObject {
		for _, g := range append([]*Object{}, o.inGroups...) {
			g.RemoveMember(o)
		}
		for _, m := range append([]*Object{}, o.members...) {
			o.RemoveMember(m)
		}
	}
	delete(d.entities, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	for _, o := range d.snapshotObservers() {
		o.EntityRemoved(e)
	}
	return nil
}

// Entity returns the named entity, or nil if the document does not contain it.
func (d *Document) Entity(name string) Entity {
	return d.entities[name]
}

// Entities returns every entity in creation order.
func (d *Document) Entities() []Entity {
	out := make([]Entity, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.entities[name])
	}
	return out
}

// NextName returns base suffixed with the lowest three digit ordinal not taken by any
// entity, so ordinals freed by deletion are reused before new ones are minted.
func (d *Document) NextName(base string) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s%03d", base, i)
		if _, ok := d.entities[name]; !ok {
			return name
		}
	}
}

// AddObserver subscribes o to change notifications.
func (d *Document) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// NotifyChanged informs observers that a property of e changed. Entities call this
// after every property mutation.
func (d *Document) NotifyChanged(e Entity, property string) {
	for _, o := range d.snapshotObservers() {
		o.PropertyChanged(e, property)
	}
}

// Recompute asks every computable entity to rebuild its derived state, in creation
// order. Errors are combined and do not stop the pass.
func (d *Document) Recompute() error {
	var errAll error
	for _, e := range d.Entities() {
		c, ok := e.(Computable)
		if !ok {
			continue
		}
		multierr.AppendInto(&errAll, c.Recompute())
	}
	return errAll
}

// snapshotObservers copies the observer list so notifications survive observers that
// subscribe or mutate the document while being notified.
func (d *Document) snapshotObservers() []Observer {
	return append([]Observer{}, d.observers...)
}
