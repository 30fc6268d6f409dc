package main

import "github.com/planit-ai/planit/cmd/planit/cmd"

func main() {
	cmd.Execute()
}
