package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
	"github.com/df07/go-pathtracer/pkg/log"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render scenes using Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to PNG",
			Description: `
Build one of the registered scenes, trace it with stratified samples per pixel
and write the gamma corrected result as a PNG file. Settings default to the
scene's own and may also be given as PT_* environment variables.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderFrame,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and models found in the asset directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "assets",
					Usage: "directory holding textures and OBJ models",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:   "serve",
			Usage:  "serve scene listings and render jobs over HTTP",
			Flags:  cmd.ServeFlags,
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("cli").Error(err)
		os.Exit(1)
	}
}
