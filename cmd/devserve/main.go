// Package main provides the devserve command: a static file server for
// front-end development that disables caching and opens a browser tab.
package main

import (
	"log"
	"os"

	"github.com/clean-dependency-project/devserve/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
