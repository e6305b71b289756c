package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitsymphony/internal/server"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd returns the serve command.
func ServeCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "address",
			Aliases: []string{"a"},
			Usage:   "Listen address",
		},
		&cli.StringFlag{
			Name:  "allow-origin",
			Usage: "Origin allowed to call the API through CORS",
			Value: "*",
		},
		&cli.IntFlag{
			Name:    "max-commits",
			Aliases: []string{"n"},
			Usage:   "Number of most recent commits to read per request",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History reader (go-git, git-cli)",
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the HTTP API",
		Flags:   flags,
		Action:  serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cctx.Close()

	srv, err := server.New(server.Config{
		Address:     cctx.Config.Server.Address,
		Timeout:     cctx.Config.ServerTimeout(),
		AllowOrigin: c.String("allow-origin"),
	}, cctx.Fetcher)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}

	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()))
	defer ctx.Shutdown()

	color.Green("GitSymphony API running on http://%s", srv.Address())
	return srv.Run(ctx, shutdownTimeout)
}
