package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/armature-cad/armature/config"
	"github.com/armature-cad/armature/robot"
	"github.com/armature-cad/armature/urdf"
	"github.com/armature-cad/armature/utils"
)

// newLogger returns the logger actions report through, a debug logger when the debug
// flag is set and a no-op logger otherwise.
func newLogger(c *cli.Context) golog.Logger {
	if c.Bool(projectFlagDebug) {
		return golog.NewDebugLogger("cli")
	}
	return zap.NewNop().Sugar()
}

// loadProject reads the project named by the file flag.
func loadProject(c *cli.Context) (*config.Project, error) {
	path := c.String(projectFlagFile)
	if path == "" {
		return nil, errors.New("no project file specified, use --file")
	}
	return config.Read(path)
}

// ValidateAction checks that a project file parses and passes validation.
func ValidateAction(c *cli.Context) error {
	p, err := loadProject(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s is a valid project (%d objects, %d robots)\n",
		c.String(projectFlagFile), len(p.Objects), len(p.Robots))
	return nil
}

// InfoAction builds the project's document and prints one summary per robot, with
// joint placements resolved to world coordinates.
func InfoAction(c *cli.Context) error {
	p, err := loadProject(c)
	if err != nil {
		return err
	}
	d, err := p.Build(newLogger(c))
	if err != nil {
		return err
	}
	for _, e := range d.Entities() {
		r, ok := e.(*robot.Robot)
		if !ok {
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s", robotSummary(r))
	}
	return nil
}

// robotSummary renders one robot as a heading plus a link table and a joint table.
func robotSummary(r *robot.Robot) string {
	links := r.Links()
	joints := r.Joints()
	out := fmt.Sprintf("robot %s: %d links, %d joints, %d proxies shown\n",
		r.Label(), len(links), len(joints), len(r.Proxies()))

	lt := table.NewWriter()
	lt.AppendHeader(table.Row{"#", "Link", "Real", "Visual", "Collision", "Proxies"})
	for i, l := range links {
		lt.AppendRow([]interface{}{
			fmt.Sprintf("%d", i+1),
			l.Label(),
			len(l.Real()),
			len(l.Visual()),
			len(l.Collision()),
			len(l.Proxies()),
		})
	}
	out += lt.Render() + "\n"

	jt := table.NewWriter()
	jt.AppendHeader(table.Row{"#", "Joint", "Type", "Parent", "Child", "Translation", "Orientation"})
	for i, j := range joints {
		pose := j.Placement()
		tra := pose.Point()
		ori := pose.Orientation().EulerAngles()
		jt.AppendRow([]interface{}{
			fmt.Sprintf("%d", i+1),
			j.Label(),
			j.Type().String(),
			endpointLabel(j.Parent()),
			endpointLabel(j.Child()),
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", tra.X, tra.Y, tra.Z),
			fmt.Sprintf(
				"Roll:%.2f, Pitch:%.2f, Yaw:%.2f",
				utils.RadToDeg(ori.Roll),
				utils.RadToDeg(ori.Pitch),
				utils.RadToDeg(ori.Yaw),
			),
		})
	}
	out += jt.Render() + "\n"
	return out
}

func endpointLabel(l *robot.Link) string {
	if l == nil {
		return ""
	}
	return l.Label()
}

// ExportAction writes one URDF file per robot. The output directory is, in order of
// preference, the output flag, the robot's configured output path, then the directory
// of the project file. Robots whose joints cannot all be exported still produce a
// partial file; their errors are reported together at the end.
func ExportAction(c *cli.Context) error {
	p, err := loadProject(c)
	if err != nil {
		return err
	}
	d, err := p.Build(newLogger(c))
	if err != nil {
		return err
	}
	only := c.String(exportFlagRobot)
	var matched int
	var errAll error
	for _, e := range d.Entities() {
		r, ok := e.(*robot.Robot)
		if !ok || (only != "" && r.Name() != only) {
			continue
		}
		matched++
		cfg, err := urdf.NewModelConfig(r)
		if err != nil {
			multierr.AppendInto(&errAll, errors.Wrapf(err, "robot %q", r.Name()))
		}
		if cfg == nil {
			continue
		}
		dir := outputDir(c, r)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			multierr.AppendInto(&errAll, err)
			continue
		}
		path := filepath.Join(dir, cfg.Name+"."+urdf.Extension)
		if err := urdf.WriteFile(path, cfg); err != nil {
			multierr.AppendInto(&errAll, err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "exported %s to %s\n", r.Name(), path)
	}
	if only != "" && matched == 0 {
		return errors.Errorf("no robot named %q in project", only)
	}
	return errAll
}

func outputDir(c *cli.Context, r *robot.Robot) string {
	if dir := c.String(exportFlagOutput); dir != "" {
		return dir
	}
	if dir := r.OutputPath(); dir != "" {
		return dir
	}
	return filepath.Dir(c.String(projectFlagFile))
}
