package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/felixgeelhaar/matchme/internal/mcp"
)

func newMCPCmd(open opener) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := mcpserver.NewServer(mcpserver.Config{
				Sessions:      app.Sessions,
				Matches:       app.Matches,
				Interests:     app.Interests,
				Users:         app.Users,
				Conversations: app.Conversations,
				Version:       Version,
				Logger:        app.Logger,
			})
			if addr != "" {
				app.Logger.Info("serving MCP over HTTP", "addr", addr)
				return srv.ServeHTTP(cmd.Context(), addr)
			}
			return srv.ServeStdio(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "Serve over HTTP on this address instead of stdio")
	return cmd
}
