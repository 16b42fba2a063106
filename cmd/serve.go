package cmd

import (
	"github.com/procdoc/sopgov/internal/config"
	"github.com/procdoc/sopgov/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "serve",
		Short: "run the sopgov server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := server.Start(config.LoadConfig()); err != nil {
				logrus.Fatalf("server stopped: %v", err)
			}
		},
	}

	return command
}
