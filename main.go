package main

import "github.com/waxworks/sidecut/cmd"

func main() {
	cmd.Execute()
}
