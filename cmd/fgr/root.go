package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dechenique1/fgr/internal/app"
	"github.com/dechenique1/fgr/internal/config"
	"github.com/dechenique1/fgr/internal/logging"
	"github.com/dechenique1/fgr/internal/mcp"
)

const (
	keyConfig  = "config"
	keyUser    = "user"
	keyBackend = "backend"
	keyDataDir = "data_dir"
	keyDB      = "db"
)

// cliState is shared by every command of one invocation.
type cliState struct {
	v        *viper.Viper
	app      *app.App
	closeLog func() error
	// confirm asks a yes/no question; replaced in tests.
	confirm func(question string) (bool, error)
}

func (s *cliState) tenant() string {
	if user := strings.TrimSpace(s.v.GetString(keyUser)); user != "" {
		return user
	}
	return mcp.DefaultTenant
}

// execute runs the command tree and always releases the store, which
// PersistentPostRunE skips when a command fails.
func execute(args []string) error {
	state := &cliState{v: viper.New(), confirm: confirmPrompt}
	cmd := buildRootCmd(state)
	if args != nil {
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if cerr := state.close(); err == nil {
		err = cerr
	}
	return err
}

func buildRootCmd(state *cliState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fgr",
		Short: "Track construction waste generation rates",
		Long: `fgr records the cumulative progress of construction projects together
with the waste generated in each period, and derives the waste generation
rate (FGR, m³ of waste per m² built) per period and cumulatively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return state.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return state.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "config file (default: $FGR_CONFIG_PATH)")
	flags.StringP(keyUser, "u", "", "user whose projects to use (default: $FGR_USER or \"default\")")
	flags.String(keyBackend, "", "store backend: sqlite or file")
	flags.String("data-dir", "", "directory for the file backend")
	flags.String(keyDB, "", "sqlite database path")

	v := state.v
	_ = v.BindPFlag(keyConfig, flags.Lookup(keyConfig))
	_ = v.BindPFlag(keyUser, flags.Lookup(keyUser))
	_ = v.BindPFlag(keyBackend, flags.Lookup(keyBackend))
	_ = v.BindPFlag(keyDataDir, flags.Lookup("data-dir"))
	_ = v.BindPFlag(keyDB, flags.Lookup(keyDB))
	_ = v.BindEnv(keyConfig, "FGR_CONFIG_PATH")
	_ = v.BindEnv(keyUser, "FGR_USER")

	rootCmd.AddCommand(
		newVersionCmd(),
		newProjectCmd(state),
		newRecordCmd(state),
		newMetricsCmd(state),
		newExportCmd(state),
		newActivityCmd(state),
		newKeyCmd(state),
	)
	return rootCmd
}

// open loads configuration, applies flag overrides and opens the store.
func (s *cliState) open(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(s.v.GetString(keyConfig))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if backend := s.v.GetString(keyBackend); backend != "" {
		cfg.Store.Backend = strings.ToLower(backend)
	}
	if dir := s.v.GetString(keyDataDir); dir != "" {
		cfg.Store.DataDir = dir
	}
	if db := s.v.GetString(keyDB); db != "" {
		cfg.DB.Path = db
	}
	// Auth only applies to the HTTP server.
	cfg.Auth.Enabled = false
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.closeLog = closeLog

	a, err := app.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	s.app = a
	return nil
}

func (s *cliState) close() error {
	var err error
	if s.app != nil {
		err = s.app.Close()
		s.app = nil
	}
	if s.closeLog != nil {
		_ = s.closeLog()
		s.closeLog = nil
	}
	return err
}

func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion":
			return false
		}
	}
	return true
}

func confirmPrompt(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fgr "+version)
		},
	}
}

var version = "dev"
