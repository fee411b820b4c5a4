package config

import (
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	goutils "go.viam.com/utils"

	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/robot"
)

// Build constructs a live document from the project: objects first, their references
// second, robots last, followed by one recompute pass to derive joint placements and
// display proxies.
func (p *Project) Build(logger golog.Logger) (*document.Document, error) {
	if err := p.Ensure(); err != nil {
		return nil, err
	}
	var d *document.Document
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, goutils.NewConfigValidationError("id", err)
		}
		d = document.NewDocumentWithID(p.Name, id, logger)
	} else {
		d = document.NewDocument(p.Name, logger)
	}

	objs := make([]*document.Object, len(p.Objects))
	for i := range p.Objects {
		o, err := document.RestoreObject(d, &p.Objects[i])
		if err != nil {
			return nil, err
		}
		objs[i] = o
	}
	for i, o := range objs {
		if err := o.RestoreReferences(&p.Objects[i]); err != nil {
			return nil, err
		}
	}
	for i := range p.Robots {
		if _, err := robot.RestoreRobot(d, &p.Robots[i]); err != nil {
			return nil, err
		}
	}
	if err := d.Recompute(); err != nil {
		return nil, err
	}
	return d, nil
}

// FromDocument snapshots a live document into a project. Derived display proxies are
// left out, as are references to them; they are rebuilt on the first recompute after
// loading. Links and joints not grouped under any robot cannot be represented in the
// project format and are skipped with a warning.
func FromDocument(d *document.Document) *Project {
	p := &Project{
		Version: CurrentVersion,
		ID:      d.ID().String(),
		Name:    d.Name(),
	}

	proxies := map[string]bool{}
	grouped := map[string]bool{}
	for _, e := range d.Entities() {
		r, ok := e.(*robot.Robot)
		if !ok {
			continue
		}
		for _, o := range r.Proxies() {
			proxies[o.Name()] = true
		}
		for _, m := range r.Group() {
			grouped[m.Name()] = true
		}
	}

	for _, e := range d.Entities() {
		switch v := e.(type) {
		case *document.Object:
			if proxies[v.Name()] {
				continue
			}
			cfg := v.Config()
			cfg.Members = withoutNames(cfg.Members, proxies)
			if proxies[cfg.Linked] {
				cfg.Linked = ""
			}
			p.Objects = append(p.Objects, *cfg)
		case *robot.Robot:
			p.Robots = append(p.Robots, *v.Config())
		case *robot.Link, *robot.Joint:
			if !grouped[v.Name()] {
				d.Logger().Warnw("not grouped under any robot, not saved", "entity", v.Name())
			}
		}
	}
	return p
}

func withoutNames(names []string, drop map[string]bool) []string {
	var out []string
	for _, n := range names {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}
