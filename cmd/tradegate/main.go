package main

import "github.com/meridiancap/tradegate/internal/cli"

func main() {
	cli.Execute()
}
