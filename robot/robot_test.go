package robot

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/armature-cad/armature/document"
	"github.com/armature-cad/armature/spatialmath"
)

type testScene struct {
	doc      *document.Document
	assembly *document.Object
	cube     *document.Object
	cylinder *document.Object
	robot    *Robot
	link     *Link
}

// makeTestScene builds a document holding an assembly with two solids and a robot
// with one link whose real part is the cube and visual part is the cylinder.
func makeTestScene(t *testing.T, logger golog.Logger) *testScene {
	t.Helper()
	d := document.NewDocument("scene", logger)

	assembly, err := d.AddObject("assembly")
	test.That(t, err, test.ShouldBeNil)
	assembly.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 10, Y: 0, Z: 0}))
	cube, err := d.AddObject("cube")
	test.That(t, err, test.ShouldBeNil)
	cube.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 0, Y: 1, Z: 0}))
	cylinder, err := d.AddObject("cylinder")
	test.That(t, err, test.ShouldBeNil)
	cylinder.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 0, Y: 0, Z: 2}))
	test.That(t, assembly.AddMember(cube), test.ShouldBeNil)
	test.That(t, assembly.AddMember(cylinder), test.ShouldBeNil)

	r, err := NewRobot(d, "robot")
	test.That(t, err, test.ShouldBeNil)
	l, err := NewLink(d, "arm")
	test.That(t, err, test.ShouldBeNil)
	l.SetReal([]*document.Object{cube})
	l.SetVisual([]*document.Object{cylinder})
	test.That(t, r.Add(l), test.ShouldBeNil)

	return &testScene{doc: d, assembly: assembly, cube: cube, cylinder: cylinder, robot: r, link: l}
}

func TestReconcileCreatesProxies(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	// real is shown by default
	proxies := s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0].Name(), test.ShouldEqual, "real_arm000")
	test.That(t, proxies[0].LinkedObject(), test.ShouldEqual, s.cube)
	// the proxy inherits the source's resolved world placement
	test.That(t, spatialmath.R3VectorAlmostEqual(proxies[0].Placement().Point(), r3.Vector{X: 10, Y: 1, Z: 0}, 1e-9), test.ShouldBeTrue)

	s.robot.SetShowVisual(true)
	proxies = s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 2)
	test.That(t, proxies[1].Name(), test.ShouldEqual, "visual_arm000")
	test.That(t, proxies[1].LinkedObject(), test.ShouldEqual, s.cylinder)
	test.That(t, spatialmath.R3VectorAlmostEqual(proxies[1].Placement().Point(), r3.Vector{X: 10, Y: 0, Z: 2}, 1e-9), test.ShouldBeTrue)

	test.That(t, s.link.Proxies(), test.ShouldResemble, proxies)
}

func TestReconcileIdempotent(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)
	s.robot.SetShowVisual(true)

	before := s.robot.Proxies()
	s.robot.ResetGroup()
	s.robot.ResetGroup()
	test.That(t, s.doc.Recompute(), test.ShouldBeNil)

	after := s.robot.Proxies()
	test.That(t, after, test.ShouldHaveLength, len(before))
	for i := range after {
		test.That(t, after[i], test.ShouldEqual, before[i])
	}
}

func TestReconcileDedupAcrossCategories(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	// the same source in two categories earns a single proxy
	s.link.SetVisual([]*document.Object{s.cube})
	s.robot.SetShowVisual(true)
	proxies := s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	p := proxies[0]
	test.That(t, p.Name(), test.ShouldEqual, "real_arm000")

	// the surviving category keeps the existing proxy and its name
	s.robot.SetShowReal(false)
	proxies = s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0], test.ShouldEqual, p)
	test.That(t, proxies[0].Name(), test.ShouldEqual, "real_arm000")

	// no category demands it anymore
	s.robot.SetShowVisual(false)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 0)
	test.That(t, s.doc.Entity("real_arm000"), test.ShouldBeNil)
}

func TestReconcileDedupOnFirstPass(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := document.NewDocument("scene", logger)

	cube, err := d.AddObject("cube")
	test.That(t, err, test.ShouldBeNil)

	r, err := NewRobot(d, "robot")
	test.That(t, err, test.ShouldBeNil)
	r.SetShowVisual(true)

	// the link's first sync demands the same source under both categories
	l, err := NewLink(d, "arm")
	test.That(t, err, test.ShouldBeNil)
	l.SetReal([]*document.Object{cube})
	l.SetVisual([]*document.Object{cube})
	test.That(t, r.Add(l), test.ShouldBeNil)

	proxies := l.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0].Name(), test.ShouldEqual, "real_arm000")
	test.That(t, proxies[0].LinkedObject(), test.ShouldEqual, cube)
	test.That(t, d.Entity("visual_arm000"), test.ShouldBeNil)

	// the pass converged; the next one keeps the proxy
	test.That(t, d.Recompute(), test.ShouldBeNil)
	test.That(t, r.Proxies(), test.ShouldHaveLength, 1)
	test.That(t, r.Proxies()[0], test.ShouldEqual, proxies[0])
}

func TestFlagTogglePreservesOtherProxies(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	realProxy := s.robot.Proxies()[0]

	s.robot.SetShowVisual(true)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 2)
	test.That(t, s.robot.Proxies()[0], test.ShouldEqual, realProxy)

	s.robot.SetShowVisual(false)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 1)
	test.That(t, s.robot.Proxies()[0], test.ShouldEqual, realProxy)
	test.That(t, s.doc.Entity("visual_arm000"), test.ShouldBeNil)
}

func TestSourceListEditsApplyOnNextReconcile(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	// list edits do not reconcile by themselves
	s.link.SetReal([]*document.Object{s.cube, s.cylinder})
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 1)

	test.That(t, s.doc.Recompute(), test.ShouldBeNil)
	proxies := s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 2)
	test.That(t, proxies[1].Name(), test.ShouldEqual, "real_arm001")
	cylinderProxy := proxies[1]

	// dropping a source destroys only its proxy
	s.link.SetReal([]*document.Object{s.cylinder})
	test.That(t, s.doc.Recompute(), test.ShouldBeNil)
	proxies = s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0], test.ShouldEqual, cylinderProxy)
	test.That(t, s.doc.Entity("real_arm000"), test.ShouldBeNil)

	// a freed ordinal is reused for the next derivation
	s.link.SetReal([]*document.Object{s.cylinder, s.cube})
	test.That(t, s.doc.Recompute(), test.ShouldBeNil)
	proxies = s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 2)
	test.That(t, proxies[1].Name(), test.ShouldEqual, "real_arm000")
	test.That(t, proxies[1].LinkedObject(), test.ShouldEqual, s.cube)
}

func TestRemoveLinkDestroysItsProxies(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	j, err := NewJoint(s.doc, "shoulder")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.robot.Add(j), test.ShouldBeNil)

	s.robot.Remove(s.link)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 0)
	test.That(t, s.doc.Entity("real_arm000"), test.ShouldBeNil)
	test.That(t, s.link.Robot(), test.ShouldBeNil)

	// the rest of the group is untouched
	test.That(t, s.robot.Group(), test.ShouldResemble, []document.Entity{j})
	test.That(t, s.doc.Entity("shoulder"), test.ShouldEqual, j)
	// the link itself stays in the document
	test.That(t, s.doc.Entity("arm"), test.ShouldEqual, s.link)
}

func TestLinkOwnership(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	r2, err := NewRobot(s.doc, "robot2")
	test.That(t, err, test.ShouldBeNil)
	err = r2.Add(s.link)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already belongs")

	s.robot.Remove(s.link)
	test.That(t, r2.Add(s.link), test.ShouldBeNil)
	test.That(t, s.link.Robot(), test.ShouldEqual, r2)
}

func TestAmbiguousParentWarnsOnce(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)
	d := document.NewDocument("scene", logger)

	left, err := d.AddObject("left")
	test.That(t, err, test.ShouldBeNil)
	left.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 0, Z: 0}))
	right, err := d.AddObject("right")
	test.That(t, err, test.ShouldBeNil)
	right.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 2, Y: 0, Z: 0}))
	shared, err := d.AddObject("shared")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, left.AddMember(shared), test.ShouldBeNil)
	test.That(t, right.AddMember(shared), test.ShouldBeNil)

	r, err := NewRobot(d, "robot")
	test.That(t, err, test.ShouldBeNil)
	l, err := NewLink(d, "base")
	test.That(t, err, test.ShouldBeNil)
	l.SetReal([]*document.Object{shared})
	test.That(t, r.Add(l), test.ShouldBeNil)

	proxies := r.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, spatialmath.PoseAlmostEqual(proxies[0].Placement(), spatialmath.NewZeroPose()), test.ShouldBeTrue)
	test.That(t, logs.FilterMessageSnippet("more than one parent").All(), test.ShouldHaveLength, 1)

	// reconciling again keeps the proxy and does not warn again
	test.That(t, d.Recompute(), test.ShouldBeNil)
	test.That(t, logs.FilterMessageSnippet("more than one parent").All(), test.ShouldHaveLength, 1)

	// a top level source is placed at identity silently
	loose, err := d.AddObject("loose")
	test.That(t, err, test.ShouldBeNil)
	loose.SetPlacement(spatialmath.NewPoseFromPoint(r3.Vector{X: 7, Y: 7, Z: 7}))
	l.SetReal([]*document.Object{shared, loose})
	test.That(t, d.Recompute(), test.ShouldBeNil)
	proxies = r.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 2)
	test.That(t, spatialmath.PoseAlmostEqual(proxies[1].Placement(), spatialmath.NewZeroPose()), test.ShouldBeTrue)
	test.That(t, logs.FilterMessageSnippet("more than one parent").All(), test.ShouldHaveLength, 1)
}

// flagFlipper turns on the visual flag the first time it sees a proxy disappear.
type flagFlipper struct {
	robot   *Robot
	flipped bool
}

func (f *flagFlipper) EntityAdded(document.Entity) {}

func (f *flagFlipper) EntityRemoved(document.Entity) {
	if !f.flipped {
		f.flipped = true
		f.robot.SetShowVisual(true)
	}
}

func (f *flagFlipper) PropertyChanged(document.Entity, string) {}

func TestReentrantMutationIsDeferred(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)
	s.doc.AddObserver(&flagFlipper{robot: s.robot})

	// the observer mutates the robot while the pass is removing the real proxy; the
	// nested reconcile is ignored rather than recursing
	s.robot.SetShowReal(false)
	test.That(t, s.robot.ShowVisual(), test.ShouldBeTrue)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 0)

	// the following pass converges on the mutated state
	test.That(t, s.doc.Recompute(), test.ShouldBeNil)
	proxies := s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0].Name(), test.ShouldEqual, "visual_arm000")
	test.That(t, proxies[0].LinkedObject(), test.ShouldEqual, s.cylinder)
}

func TestDetachedRobotResetIsNoop(t *testing.T) {
	r := &Robot{}
	r.ResetGroup()
	test.That(t, r.Proxies(), test.ShouldHaveLength, 0)
}

func TestExternallyDeletedProxyIsRederived(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	old := s.robot.Proxies()[0]
	test.That(t, s.doc.Remove(old.Name()), test.ShouldBeNil)

	test.That(t, s.doc.Recompute(), test.ShouldBeNil)
	proxies := s.robot.Proxies()
	test.That(t, proxies, test.ShouldHaveLength, 1)
	test.That(t, proxies[0], test.ShouldNotEqual, old)
	test.That(t, proxies[0].Name(), test.ShouldEqual, "real_arm000")
	test.That(t, proxies[0].LinkedObject(), test.ShouldEqual, s.cube)
}

func TestExternallyDeletedLinkLeavesGroup(t *testing.T) {
	logger := golog.NewTestLogger(t)
	s := makeTestScene(t, logger)

	test.That(t, s.doc.Remove("arm"), test.ShouldBeNil)
	test.That(t, s.doc.Recompute(), test.ShouldBeNil)

	test.That(t, s.robot.Group(), test.ShouldHaveLength, 0)
	test.That(t, s.robot.Proxies(), test.ShouldHaveLength, 0)
	test.That(t, s.doc.Entity("real_arm000"), test.ShouldBeNil)
	test.That(t, s.link.Robot(), test.ShouldBeNil)
}
