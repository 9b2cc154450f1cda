package main

import (
	"github.com/voxscribe/voxgo/internal/app/worker"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	worker.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
 _   _____  _  ________________(_)/ /_  ___
| | / / __ \| |/_/ ___/ ___/ __/ / __ \/ _ \
| |/ / /_/ />  < (__  ) /__/ / / / /_/ /  __/
|___/\____/_/|_/____/\___/_/ /_/_.___/\___/

 _      ______  _____/ /_____  _____
| | /| / / __ \/ ___/ //_/ _ \/ ___/
| |/ |/ / /_/ / /  / ,< /  __/ /
|__/|__/\____/_/  /_/|_|\___/_/   v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/voxscribe/voxgo"))
}
