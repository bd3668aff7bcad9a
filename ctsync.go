package main

import (
	"os"

	"github.com/ctsync/ctsync/mint"
	"github.com/ctsync/ctsync/server"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

var rootCmd = &cobra.Command{
	Use:   "ctsync",
	Short: "ctsync civic evidence board, include submit pipeline and api server.",
}

func init() {
	rootCmd.AddCommand(mint.Cmd)
	rootCmd.AddCommand(server.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
