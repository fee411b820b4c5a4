// Package config defines the on-disk project format: a versioned JSON snapshot of a
// document and the robots modeled in it.
package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/robot"
)

// CurrentVersion is the project format version this package reads and writes.
const CurrentVersion = 1

// A Project describes a saved document: its identity plus snapshots of every object
// and robot in it. Derived display proxies are not part of a project; they are rebuilt
// on load.
type Project struct {
	Version int                     `json:"version"`
	ID      string                  `json:"id,omitempty"`
	Name    string                  `json:"name"`
	Objects []document.ObjectConfig `json:"objects,omitempty"`
	Robots  []robot.RobotConfig     `json:"robots,omitempty"`
}

// NewUnsupportedVersionError is used when a project file carries a version this
// package cannot read.
func NewUnsupportedVersionError(version int) error {
	return errors.Errorf("unsupported project version %d (current is %d)", version, CurrentVersion)
}

// Ensure checks that the project is structurally valid: supported version, well formed
// identity, unique entity names, and no dangling references. It does not build
// anything.
func (p *Project) Ensure() error {
	if p.Version != CurrentVersion {
		return NewUnsupportedVersionError(p.Version)
	}
	if p.ID != "" {
		if _, err := uuid.Parse(p.ID); err != nil {
			return goutils.NewConfigValidationError("id", err)
		}
	}
	if p.Name == "" {
		return goutils.NewConfigValidationFieldRequiredError("", "name")
	}

	names := map[string]string{}
	claim := func(path, name string) error {
		if name == "" {
			return goutils.NewConfigValidationFieldRequiredError(path, "name")
		}
		if prev, ok := names[name]; ok {
			return goutils.NewConfigValidationError(path,
				errors.Errorf("name %q is already used by %s", name, prev))
		}
		names[name] = path
		return nil
	}
	objects := map[string]bool{}

	for idx := range p.Objects {
		path := fmt.Sprintf("objects.%d", idx)
		if err := claim(path, p.Objects[idx].Name); err != nil {
			return err
		}
		objects[p.Objects[idx].Name] = true
	}
	for idx := range p.Objects {
		path := fmt.Sprintf("objects.%d", idx)
		cfg := &p.Objects[idx]
		if cfg.Linked != "" && !objects[cfg.Linked] {
			return goutils.NewConfigValidationError(path, errors.Errorf("unknown object %q", cfg.Linked))
		}
		for _, m := range cfg.Members {
			if !objects[m] {
				return goutils.NewConfigValidationError(path, errors.Errorf("unknown object %q", m))
			}
		}
	}

	for ridx := range p.Robots {
		rpath := fmt.Sprintf("robots.%d", ridx)
		rcfg := &p.Robots[ridx]
		if err := claim(rpath, rcfg.Name); err != nil {
			return err
		}
		if rcfg.Assembly != "" && !objects[rcfg.Assembly] {
			return goutils.NewConfigValidationError(rpath, errors.Errorf("unknown object %q", rcfg.Assembly))
		}

		links := map[string]bool{}
		for idx := range rcfg.Links {
			path := fmt.Sprintf("%s.links.%d", rpath, idx)
			lcfg := &rcfg.Links[idx]
			if err := claim(path, lcfg.Name); err != nil {
				return err
			}
			links[lcfg.Name] = true
			for _, part := range [][]string{lcfg.Real, lcfg.Visual, lcfg.Collision} {
				for _, name := range part {
					if !objects[name] {
						return goutils.NewConfigValidationError(path, errors.Errorf("unknown object %q", name))
					}
				}
			}
		}

		joints := map[string]bool{}
		for idx := range rcfg.Joints {
			path := fmt.Sprintf("%s.joints.%d", rpath, idx)
			jcfg := &rcfg.Joints[idx]
			if err := claim(path, jcfg.Name); err != nil {
				return err
			}
			joints[jcfg.Name] = true
			if !robot.JointType(jcfg.Type).Valid() {
				return goutils.NewConfigValidationError(path, robot.NewUnsupportedJointTypeError(jcfg.Type))
			}
			if jcfg.Parent != "" && !links[jcfg.Parent] {
				return goutils.NewConfigValidationError(path, errors.Errorf("unknown link %q", jcfg.Parent))
			}
			if jcfg.Child != "" && !links[jcfg.Child] {
				return goutils.NewConfigValidationError(path, errors.Errorf("unknown link %q", jcfg.Child))
			}
		}

		for _, name := range rcfg.Group {
			if !links[name] && !joints[name] && !objects[name] {
				return goutils.NewConfigValidationError(rpath, errors.Errorf("unknown group member %q", name))
			}
		}
	}
	return nil
}

// FindRobot finds a particular robot snapshot by name.
func (p *Project) FindRobot(name string) *robot.RobotConfig {
	for i := range p.Robots {
		if p.Robots[i].Name == name {
			return &p.Robots[i]
		}
	}
	return nil
}
