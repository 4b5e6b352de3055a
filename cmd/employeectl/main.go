// Command employeectl imports and exports employee records against a
// running employee API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/employee-records-api/internal/client"
	"github.com/employee-records-api/internal/config"
	"github.com/employee-records-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries global flags and the state built from them
type app struct {
	configPath  string
	apiURL      string
	concurrency int
	timeout     time.Duration
	verbose     bool

	cfg *config.ClientConfig
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "employeectl",
		Short: "Bulk import and export of employee records",
		Long: `employeectl moves employee records between files and the employee API.

Import files may be CSV or XLSX with the columns ID,Name,Department,Salary.
Rows with an ID update the existing employee; rows without one are created.

Settings are read from ~/.employeectl.yaml, then EMPLOYEECTL_* environment
variables, then flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultClientConfigPath(), "config file")
	flags.StringVar(&a.apiURL, "api", "", "API base URL (overrides config)")
	flags.IntVar(&a.concurrency, "concurrency", 0, "requests in flight during import (overrides config)")
	flags.DurationVar(&a.timeout, "timeout", 0, "per-request timeout (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.importCmd(),
		a.exportCmd(),
		a.templateCmd(),
		a.listCmd(),
		a.getCmd(),
	)
	return root
}

// setup loads configuration and applies flag overrides
func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := "info"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.NewConsole(cmd.ErrOrStderr(), level)

	cfg, err := config.LoadClient(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIBaseURL = a.apiURL
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = a.concurrency
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log.Debug().
		Str("api", cfg.APIBaseURL).
		Int("concurrency", cfg.Concurrency).
		Dur("timeout", cfg.Timeout).
		Msg("Configuration loaded")
	return nil
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.APIBaseURL, &http.Client{Timeout: a.cfg.Timeout})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
