package main

import "github.com/chaos-io/cutout/cmd"

func main() {
	cmd.Execute()
}
