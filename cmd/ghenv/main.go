package main

import "ghenv/internal/cmd"

func main() {
	cmd.Execute()
}
