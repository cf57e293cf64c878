package main

import "github.com/nudnik/nudnik/cmd/nudnikctl/cmd"

func main() {
	cmd.Execute()
}
