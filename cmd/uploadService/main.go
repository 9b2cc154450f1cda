package main

import (
	"github.com/voxscribe/voxgo/internal/app/upload"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	upload.Execute()
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

              __                __
  __  ______ / /___  ____ _____/ /
 / / / / __ \/ / __ \/ __ ` + "`" + `/ __  /
/ /_/ / /_/ / / /_/ / /_/ / /_/ /
\__,_/ .___/_/\____/\__,_/\__,_/ v: %s
    /_/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/voxscribe/voxgo"))
}
