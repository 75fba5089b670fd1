package main

import "github.com/mydehq/plexify/internal/cli"

func main() {
	cli.Execute()
}
