package main

import "github.com/suitekeep/concert-updater/internal/cli"

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute()
}
