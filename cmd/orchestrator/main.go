package main

import "github.com/vestafn/vesta/cmd/orchestrator/app"

func main() {
	app.Run()
}
