package main

import "github.com/Ati1707/renpy-img-prune/cmd"

func main() {
	cmd.Execute()
}
