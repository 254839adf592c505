// Command spotifyctl is a small demo binary over the library: it runs the
// client-credentials flow and exposes a few read-only Web API lookups.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/client"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/logging"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/spotify"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/tokenstore"
)

func main() {
	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:    "spotifyctl",
		Usage:   "Spotify Web API lookups from the command line",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "new-releases",
				Usage: "List newly released albums",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of albums to collect (0 = all)",
						Value: 50,
					},
				},
				Action: runNewReleases,
			},
			{
				Name:      "album",
				Usage:     "Show one album by ID",
				ArgsUsage: "<album-id>",
				Flags:     []cli.Flag{configFlag},
				Action:    runAlbum,
			},
			{
				Name:      "search",
				Usage:     "Search artists by name",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of artists to collect",
						Value: 20,
					},
				},
				Action: runSearch,
			},
		},
	}
}

// newService builds the full pipeline from the resolved configuration:
// client-credentials authenticator, optional file token store, request
// executor, endpoint layer.
func newService(cmd *cli.Command) (*spotify.Service, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: os.Stderr,
	})

	authCfg := auth.Config{
		Flow: auth.ClientCredentials{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Scopes:       cfg.Spotify.Scopes,
		},
	}
	if cfg.Client.TokenFile != "" {
		store, err := tokenstore.NewFileStore(cfg.Client.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		authCfg.Store = store
	}
	authn, err := auth.New(authCfg)
	if err != nil {
		return nil, err
	}

	clientCfg := client.DefaultConfig(authn)
	clientCfg.MaxRateLimitRetries = cfg.Client.MaxRateLimitRetries
	clientCfg.RequestsPerSecond = cfg.Client.RequestsPerSecond
	c, err := client.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return spotify.New(c), nil
}

func runNewReleases(ctx context.Context, cmd *cli.Command) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	max := cmd.Int("max")
	if max <= 0 {
		max = paging.Unlimited
	}
	albums, err := paging.CollectAll(ctx, svc.NewReleases(), paging.MaxPageSize, max)
	if err != nil {
		return err
	}

	for _, a := range albums {
		fmt.Printf("%-24s %s by %s\n", a.ID, a.Name, artistNames(a.Artists))
	}
	fmt.Printf("\n%d albums\n", len(albums))
	return nil
}

func runAlbum(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("album ID argument is required")
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	album, err := svc.Album(ctx, id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(album, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("search query argument is required")
	}

	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	artists, err := paging.CollectAll(ctx, svc.SearchArtists(query), paging.MaxPageSize, cmd.Int("max"))
	if err != nil {
		return err
	}

	for _, a := range artists {
		fmt.Printf("%-24s %s (%d followers)\n", a.ID, a.Name, a.Followers.Total)
	}
	return nil
}

func artistNames(artists []spotify.SimpleArtist) string {
	names := ""
	for i, a := range artists {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}
