package main

import "github.com/xvierd/tempo/cmd"

func main() {
	cmd.Execute()
}
