package main

import "github.com/gridplane/gridplane/cmd/gridplane/cmd"

func main() {
	cmd.Execute()
}
