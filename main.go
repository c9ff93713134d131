package main

import "github.com/arkegu/arkegu-cache/cmd"

func main() {
	cmd.Execute()
}
