package main

import (
	"github.com/voxscribe/voxgo/internal/app/jobs"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	jobs.Execute()
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

    (_)___  / /_  _____
   / / __ \/ __ \/ ___/
  / / /_/ / /_/ (__  )
 _/ /\____/_.___/____/  v: %s
/___/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/voxscribe/voxgo"))
}
