package main

import "github.com/glothriel/castlink/pkg/cmd"

func main() {
	cmd.Run()
}
