package main

import (
	"os"

	ypapp "github.com/pagetools/yamlpage/app"
)

func main() {
	app := *ypapp.App
	app.Reader = os.Stdin
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
