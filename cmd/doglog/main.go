// Package main is the entry point for the doglog CLI.
package main

import "github.com/doglog-app/doglog/internal/app"

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	app.SetVersion(version)
	app.Execute()
}
