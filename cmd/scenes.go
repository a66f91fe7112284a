package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ListScenes prints every built-in scene and every model found in the asset directory.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if ctx.IsSet("assets") {
		cfg.AssetDir = ctx.String("assets")
	}

	response, err := scene.ListAllScenes(cfg.AssetDir)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Group", "Description"})
	count := 0
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			table.Append([]string{info.ID, info.Name, group.Name, info.Description})
			count++
		}
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", count)})
	table.Render()
	return nil
}
