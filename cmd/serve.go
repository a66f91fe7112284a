package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/web/server"
)

// ServeFlags are the options of the serve command
var ServeFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "port, p",
		Usage: "port to serve on (default PT_PORT or 8080)",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "concurrent rows per job (default: one per CPU)",
	},
	cli.StringFlag{
		Name:  "assets",
		Usage: "directory holding textures and OBJ/PLY models",
	},
	cli.StringSliceFlag{
		Name:  "origin",
		Value: &cli.StringSlice{},
		Usage: "allowed websocket origin pattern, e.g. localhost:5173",
	},
}

// Serve runs the web server until interrupted.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.NewServer(server.Options{
		Port:           cfg.Port,
		AssetDir:       cfg.AssetDir,
		Workers:        cfg.Workers,
		Seed:           cfg.EffectiveSeed(),
		OriginPatterns: ctx.StringSlice("origin"),
	}).ListenAndServe(sigCtx)
}
