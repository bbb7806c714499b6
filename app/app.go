// Package ypapp assembles the full yamlpage CLI: importing it pulls in every
// command package, each of which registers itself on the shared App value.
package ypapp

import (
	appbase "github.com/pagetools/yamlpage/app/base"
	_ "github.com/pagetools/yamlpage/app/page"
)

var App = appbase.App
