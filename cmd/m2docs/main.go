package main

import "github.com/dshills/m2docs/internal/cli"

func main() {
	cli.Execute()
}
