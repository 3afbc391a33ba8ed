package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"plume/internal/builder"
	"plume/internal/config"
	"plume/internal/scaffold"
	"plume/internal/server"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Directory to use as the site root",
			Value:   ".",
			Sources: cli.EnvVars("PLUME_ROOT"),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Site configuration file, relative to the root",
			Value:   "site.yaml",
			Sources: cli.EnvVars("PLUME_CONFIG"),
		},
		&cli.BoolFlag{
			Name:  "unsafe",
			Usage: "Disable HTML sanitization of goldmark output",
		},
	}
}

func loadSite(cmd *cli.Command) (string, config.Site, error) {
	root := cmd.String("root")
	site, err := config.Load(filepath.Join(root, cmd.String("config")))
	if err != nil {
		return "", config.Site{}, err
	}
	return root, site, nil
}

func runBuild(_ context.Context, cmd *cli.Command) error {
	root, site, err := loadSite(cmd)
	if err != nil {
		return err
	}
	res, err := buildOnce(root, site, cmd.Bool("unsafe"))
	if err != nil {
		return err
	}
	fmt.Printf("Built %d notes across %d sections.\n", res.Notes, len(res.PerSection))
	return nil
}

func buildOnce(root string, site config.Site, unsafe bool) (builder.Result, error) {
	tmpl, err := builder.LoadTemplates(root, site.Template)
	if err != nil {
		return builder.Result{}, fmt.Errorf("failed to load templates: %w", err)
	}
	return builder.BuildSite(root, site, tmpl, builder.Options{Unsafe: unsafe})
}

func runServe(_ context.Context, cmd *cli.Command) error {
	root := cmd.String("root")
	unsafe := cmd.Bool("unsafe")
	rebuild := func() error {
		// Reload the config on every build so site.yaml edits take
		// effect without restarting the server.
		site, err := config.Load(filepath.Join(root, cmd.String("config")))
		if err != nil {
			return err
		}
		_, err = buildOnce(root, site, unsafe)
		return err
	}
	return server.Run(int(cmd.Int("port")), root, rebuild)
}

func runNew(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	switch {
	case args.Len() == 2 && args.Get(0) == "site":
		return scaffold.CreateSite(args.Get(1))
	case args.Len() == 2:
		root, site, err := loadSite(cmd)
		if err != nil {
			return err
		}
		return scaffold.CreateNote(root, args.Get(0), args.Get(1), site)
	default:
		return fmt.Errorf("usage: plume new site <dir> | plume new <section> <title>")
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "plume",
		Usage: "A quiet static site generator for long-form notes",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Render notes and splice the section listings",
				Flags:  commonFlags(),
				Action: runBuild,
			},
			{
				Name:  "serve",
				Usage: "Run a local dev server with auto-rebuild",
				Flags: append(commonFlags(), &cli.IntFlag{
					Name:  "port",
					Usage: "Port for the local development server",
					Value: 1313,
				}),
				Action: runServe,
			},
			{
				Name:      "new",
				Usage:     "Create a new site scaffold or a new note",
				ArgsUsage: "site <dir> | <section> <title>",
				Flags:     commonFlags(),
				Action:    runNew,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("operation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
