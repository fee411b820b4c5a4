package robot

import (
	"github.com/edaniels/golog"

	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/spatialmath"
)

// resolveSourcePlacement decides the placement a display proxy inherits from its
// source object. A source living under exactly one container chain gets the world
// placement resolved through that chain. A top level source gets the identity. A
// source reachable through more than one container is ambiguous: a warning is logged
// and the identity is used.
func resolveSourcePlacement(o *document.Object, logger golog.Logger) spatialmath.Pose {
	parents := o.Parents()
	switch len(parents) {
	case 0:
		return spatialmath.NewZeroPose()
	case 1:
		p, err := parents[0].Parent.SubObjectPlacement(parents[0].SubPath)
		if err != nil {
			logger.Errorw("cannot resolve source placement", "object", o.Name(), "error", err)
			return spatialmath.NewZeroPose()
		}
		return p
	default:
		logger.Warnf("%s has more than one parent, proxy placed at identity", o.Name())
		return spatialmath.NewZeroPose()
	}
}

// worldPlacement resolves the world placement of an object through its containers. A
// top level object is placed by its own placement. Ambiguous containment degrades to
// the identity, with a warning, like resolveSourcePlacement.
func worldPlacement(o *document.Object, logger golog.Logger) spatialmath.Pose {
	if len(o.Parents()) == 0 {
		return o.Placement()
	}
	return resolveSourcePlacement(o, logger)
}
