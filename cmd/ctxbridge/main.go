package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ctxbridge/ctxbridge/contextserver"
	"github.com/ctxbridge/ctxbridge/internal/log"
	"github.com/ctxbridge/ctxbridge/settings"
	"github.com/ctxbridge/ctxbridge/tools"
)

func main() {
	app := &cli.Command{
		Name:  "ctxbridge",
		Usage: "Bridge context server tools into an agent tool loop",
		Flags: defineFlags(),
		Commands: []*cli.Command{
			{
				Name:   "servers",
				Usage:  "List configured context servers and their state",
				Action: serversCommand,
			},
			{
				Name:   "tools",
				Usage:  "Start all servers and list the tools they advertise",
				Action: toolsCommand,
			},
			{
				Name:  "allow",
				Usage: "Persist the global always-allow-tool-actions setting",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "always",
						Usage: "Allow all tool actions without confirmation",
					},
				},
				Action: allowCommand,
			},
			{
				Name:      "run",
				Usage:     "Run a tool on a context server",
				ArgsUsage: "<server> <tool>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Tool input as a JSON value",
						Value:   "{}",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "File to write an image result to",
						Value: "result.png",
					},
				},
				Action: runCommand,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "settings",
			Aliases: []string{"s"},
			Usage:   "Settings file (repeatable; later files override earlier ones)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Allow all tool actions without confirmation for this run",
		},
	}
}

// setup loads the settings layers and builds the shared stores.
func setup(cmd *cli.Command) (*settings.Store, *contextserver.Store, error) {
	log.InitLogger(cmd.Bool("debug"))
	initColors()

	paths := cmd.StringSlice("settings")
	if len(paths) == 0 {
		paths = []string{settings.DefaultUserPath()}
	}

	loaded, err := settings.Load(paths...)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Bool("yes") {
		loaded.AlwaysAllowToolActions = true
	}

	settingsStore := settings.NewStore(loaded)
	serverStore := contextserver.NewStore(settingsStore)
	serverStore.Sync()
	return settingsStore, serverStore, nil
}

func serversCommand(_ context.Context, cmd *cli.Command) error {
	_, serverStore, err := setup(cmd)
	if err != nil {
		return err
	}

	servers := serverStore.All()
	if len(servers) == 0 {
		fmt.Println(dimStyle.Styled("no context servers configured"))
		return nil
	}

	for _, srv := range servers {
		fmt.Printf("%s  %s\n", boldStyle.Styled(string(srv.ID())), describeServer(srv))
	}
	return nil
}

func toolsCommand(ctx context.Context, cmd *cli.Command) error {
	_, serverStore, err := setup(cmd)
	if err != nil {
		return err
	}
	defer serverStore.StopAll()

	if err := serverStore.StartAll(ctx); err != nil {
		return err
	}

	registry := tools.NewRegistry([]tools.Tool{&tools.EchoTool{}, &tools.NowTool{}})
	for _, srv := range serverStore.All() {
		source := tools.ContextServerSource{Store: serverStore, ServerID: srv.ID()}
		if err := registry.LoadTools(ctx, source, nil); err != nil {
			return err
		}
	}

	for _, schema := range registry.Schemas() {
		fmt.Printf("%s  %s\n", boldStyle.Styled(schema.Title), schema.Description)
	}
	return nil
}

func allowCommand(_ context.Context, cmd *cli.Command) error {
	settingsStore, _, err := setup(cmd)
	if err != nil {
		return err
	}

	settingsStore.SetAlwaysAllowToolActions(cmd.Bool("always"))
	path := settings.DefaultUserPath()
	if err := settingsStore.Save(path); err != nil {
		return err
	}
	fmt.Println(successStyle.Styled("saved " + path))
	return nil
}

func describeServer(srv *contextserver.Server) string {
	config := srv.Config()
	state := srv.State().String()

	switch config.Transport {
	case "sse", "streamable":
		return fmt.Sprintf("%s (%s) [%s]", config.URL, config.Transport, state)
	default:
		display := config.Command
		for _, arg := range config.Args {
			display += " " + arg
		}
		return fmt.Sprintf("%s [%s]", display, state)
	}
}
