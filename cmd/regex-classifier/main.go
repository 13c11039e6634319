package main

import "github.com/vitoramaral10/regex-classifier/internal/cli"

func main() {
	cli.Execute()
}
