package main

import "github.com/nudnik/nudnik/cmd/nudnik-server/cmd"

func main() {
	cmd.Execute()
}
