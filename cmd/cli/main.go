package main

import "github.com/vestafn/vesta/cmd/cli/cmd"

func main() {
	cmd.Run()
}
