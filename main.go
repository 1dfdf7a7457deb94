package main

import "aidbg/cmd"

func main() {
	cmd.Execute()
}
