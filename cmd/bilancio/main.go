package main

import (
	"bilancio/internal/cli"
)

func main() {
	cli.Execute()
}
