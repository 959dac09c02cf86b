package main

import "github.com/example/resy-watch/cmd"

func main() {
	cmd.Execute()
}
