package main

import "github.com/finkpi/finkpi/cmd"

func main() {
	cmd.Execute()
}
