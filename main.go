package main

import "github.com/appconf/appconf/cmd"

func main() {
	cmd.Execute()
}
