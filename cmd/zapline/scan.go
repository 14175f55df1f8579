package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zapline/models"
	"zapline/scanner"
)

var (
	scanConfigFile     string
	scanPort           int
	scanCommand        string
	scanResultsDir     string
	scanSpiderDeadline time.Duration
	scanActiveDeadline time.Duration
	scanLoginURL       string
	scanUsername       string
	scanPassword       string
	scanDebug          bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <target-url> [api-url]",
	Short: "Run a full baseline scan against a target",
	Long: `Starts the scan engine, declares the target in scope, runs a discovery
(spider) pass followed by an active scan, and writes JSON and HTML reports
into the results directory. The engine is stopped on every exit path.

The optional api-url argument names a separate API base to scan; when
omitted it is derived from the target URL by port substitution.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reject a bad target before the engine is ever started.
		for _, arg := range args {
			if _, err := models.ParseTargetInfo(arg); err != nil {
				return fmt.Errorf("invalid target URL %q: %w", arg, err)
			}
		}

		if scanDebug {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg := scanner.DefaultConfig()

		fc, err := loadFileConfig(scanConfigFile)
		if err != nil {
			return err
		}
		fc.apply(&cfg)

		// Flags win over the config file.
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = scanPort
		}
		if flags.Changed("command") {
			cfg.Command = scanCommand
		}
		if flags.Changed("results-dir") {
			cfg.ResultsDir = scanResultsDir
		}
		if flags.Changed("spider-deadline") {
			cfg.SpiderDeadline = scanSpiderDeadline
		}
		if flags.Changed("active-deadline") {
			cfg.ActiveDeadline = scanActiveDeadline
		}
		if flags.Changed("login-url") {
			cfg.LoginURL = scanLoginURL
		}
		if flags.Changed("username") {
			cfg.Username = scanUsername
		}
		if flags.Changed("password") {
			cfg.Password = scanPassword
		}

		cfg.TargetURL = args[0]
		if len(args) > 1 {
			cfg.APIBaseURL = args[1]
		}

		_, err = scanner.Execute(cmd.Context(), cfg)
		return err
	},
}

func init() {
	defaults := scanner.DefaultConfig()

	scanCmd.Flags().StringVar(&scanConfigFile, "config", "", "path to a YAML config file")
	scanCmd.Flags().IntVar(&scanPort, "port", defaults.Port, "engine control port")
	scanCmd.Flags().StringVar(&scanCommand, "command", "", "engine launcher command")
	scanCmd.Flags().StringVar(&scanResultsDir, "results-dir", defaults.ResultsDir, "directory for report artifacts")
	scanCmd.Flags().DurationVar(&scanSpiderDeadline, "spider-deadline", 0, "bound on the discovery phase (0 = unbounded)")
	scanCmd.Flags().DurationVar(&scanActiveDeadline, "active-deadline", 0, "bound on the active-scan phase (0 = unbounded)")
	scanCmd.Flags().StringVar(&scanLoginURL, "login-url", "", "login page for form-based auth")
	scanCmd.Flags().StringVar(&scanUsername, "username", "", "username for form-based auth")
	scanCmd.Flags().StringVar(&scanPassword, "password", "", "password for form-based auth")
	scanCmd.Flags().BoolVar(&scanDebug, "debug", false, "enable debug logging")
}
