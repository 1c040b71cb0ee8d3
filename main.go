package main

import "github.com/Tiliavir/tacho-tracker/cmd"

func main() {
	cmd.Execute()
}
