package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
	"github.com/df07/go-pathtracer/pkg/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "pathtracer-web"
	app.Usage = "serve scene listings and render jobs over HTTP"
	app.Flags = append([]cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}, cmd.ServeFlags...)
	app.Action = cmd.Serve

	if err := app.Run(os.Args); err != nil {
		log.New("web").Error(err)
		os.Exit(1)
	}
}
