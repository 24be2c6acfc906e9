package main

import "github.com/agfs-io/agfs-shell/cmd"

func main() {
	cmd.Execute()
}
