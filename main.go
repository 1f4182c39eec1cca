package main

import "github.com/sweetstack/cakepricer/cmd"

func main() {
	cmd.Execute()
}
