package main

import "github.com/cre8hub/persona-pipeline/cmd"

func main() {
	cmd.Execute()
}
