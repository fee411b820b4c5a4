// Package main is the CLI command itself.
package main

import (
	"log"
	"os"

	"github.com/armature-cad/armature/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
