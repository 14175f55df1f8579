package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"zapline/server"
)

var (
	serveAddr       string
	serveDB         string
	serveConfigFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan history over a read-only HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadFileConfig(serveConfigFile)
		if err != nil {
			return err
		}

		addr := serveAddr
		if !cmd.Flags().Changed("addr") && len(fc.Serve.Addr) > 0 {
			addr = fc.Serve.Addr
		}
		dbPath := serveDB
		if !cmd.Flags().Changed("db") && len(fc.HistoryDB) > 0 {
			dbPath = fc.HistoryDB
		}

		return server.Start(dbPath, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8090", "listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", filepath.Join("security", "results", "history.db"), "scan-history database path")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "path to a YAML config file")
}
