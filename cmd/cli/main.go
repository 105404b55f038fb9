package main

import "github.com/heap-browser/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
