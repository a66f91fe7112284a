package cmd

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderFlags are the options of the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "cornell",
		Usage: "scene id (see the scenes command)",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width; keeps the scene's aspect ratio when height is unset",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "samples, spp",
		Usage: "samples per pixel (default: scene setting)",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Usage: "maximum bounces per path (default: scene setting)",
	},
	cli.IntFlag{
		Name:  "workers",
		Usage: "concurrent rows (default: one per CPU)",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "random seed for scene layout and sampling",
	},
	cli.StringFlag{
		Name:  "assets",
		Usage: "directory holding textures and OBJ/PLY models",
	},
	cli.StringFlag{
		Name:  "mesh",
		Usage: "OBJ or PLY file for the mesh scene",
	},
	cli.StringFlag{
		Name:  "background",
		Usage: "environment map image for the checkers scene",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "PNG filename for the rendered frame (default: <output dir>/<scene>.png)",
	},
}

// loadConfig reads the environment and applies the command line flags on top
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("samples") {
		cfg.Samples = ctx.Int("samples")
	}
	if ctx.IsSet("max-depth") {
		cfg.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("assets") {
		cfg.AssetDir = ctx.String("assets")
	}
	return cfg, nil
}

// RenderFrame renders a single frame of a scene and writes it as PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	seed := cfg.EffectiveSeed()
	sceneID := ctx.String("scene")

	sc, err := scene.Create(sceneID, scene.Options{
		AssetDir:       cfg.AssetDir,
		MeshPath:       ctx.String("mesh"),
		BackgroundPath: ctx.String("background"),
		Seed:           seed,
	})
	if err != nil {
		return err
	}
	sc.SetImageSize(ctx.Int("width"), ctx.Int("height"))
	if cfg.Samples > 0 {
		sc.SamplingConfig.SamplesPerPixel = cfg.Samples
	}
	if cfg.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = cfg.MaxDepth
	}

	r, err := renderer.New(sc, renderer.Options{
		Workers:  cfg.Workers,
		Seed:     seed,
		Progress: logProgress(),
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering scene %q", sceneID)
	img, stats, err := r.Render(sigCtx)
	if err != nil {
		return err
	}
	stats.Host = renderer.CollectHostInfo()

	out := ctx.String("out")
	if out == "" {
		out = filepath.Join(cfg.OutputDir, outputName(sceneID)+".png")
	}
	if err := img.SavePNG(out); err != nil {
		return err
	}

	logger.Noticef("frame statistics\n%s", stats.Table())
	logger.Noticef("wrote %s", out)
	return nil
}

// logProgress reports every tenth of the frame
func logProgress() renderer.ProgressFunc {
	return func(done, total int) {
		step := max(1, total/10)
		if done%step == 0 || done == total {
			logger.Infof("%3d%% (%d/%d rows)", 100*done/total, done, total)
		}
	}
}

// outputName turns a scene id into a file name
func outputName(sceneID string) string {
	return strings.NewReplacer(":", "-", "/", "-", "\\", "-").Replace(sceneID)
}
