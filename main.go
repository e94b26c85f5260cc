package main

import "github.com/notargets/fdweno/cmd"

func main() {
	cmd.Execute()
}
