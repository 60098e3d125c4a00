package main

import "github.com/mcoot/farklestats/internal/cli"

func main() {
	cli.Execute()
}
