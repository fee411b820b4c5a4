// Package cli implements the armature command line tool for working with saved
// projects: validating them, inspecting the robots they model, and exporting those
// robots as URDF.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	projectFlagFile  = "file"
	projectFlagDebug = "debug"

	exportFlagOutput = "output"
	exportFlagRobot  = "robot"
)

var app = &cli.App{
	Name:            "armature",
	Usage:           "work with robot kinematics modeled in your projects",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    projectFlagFile,
			Aliases: []string{"f"},
			Usage:   "load project from `FILE`",
		},
		&cli.BoolFlag{
			Name:  projectFlagDebug,
			Usage: "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "validate",
			Usage:  "check that a project file is well formed",
			Action: ValidateAction,
		},
		{
			Name:   "info",
			Usage:  "print the robots modeled in a project",
			Action: InfoAction,
		},
		{
			Name:  "export",
			Usage: "write URDF files for the robots in a project",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    exportFlagOutput,
					Aliases: []string{"o"},
					Usage:   "write into `DIR` instead of each robot's configured output path",
				},
				&cli.StringFlag{
					Name:  exportFlagRobot,
					Usage: "export only the named robot",
				},
			},
			Action: ExportAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
