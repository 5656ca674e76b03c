package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dori/punch/internal/app"
	"github.com/dori/punch/internal/config"
	"github.com/dori/punch/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the flag-backed viper instance shared by all subcommands
type cli struct {
	v          *viper.Viper
	configPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:   "punch",
		Short: "Project and task time tracker",
		Long: `punch tracks time spent on project tasks.

Run "punch serve" for the JSON API, "punch dash" for the terminal
dashboard, or "punch report" for a summary on stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/punch/punch.yml)")
	flags.String("data-dir", "", "data directory")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")
	c.bind(root, "data_dir", "data-dir")
	c.bind(root, "log.level", "log-level")
	c.bind(root, "log.format", "log-format")

	root.AddCommand(
		newServeCmd(c),
		newDashCmd(c),
		newReportCmd(c),
		newVersionCmd(),
	)
	return root
}

// bind makes the named flag of cmd override the config key when set
func (c *cli) bind(cmd *cobra.Command, key, name string) {
	flag := cmd.PersistentFlags().Lookup(name)
	if flag == nil {
		flag = cmd.Flags().Lookup(name)
	}
	if err := c.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func (c *cli) load() (*config.Config, error) {
	return config.Load(c.v, c.configPath)
}

// open loads the config and starts the application with logs written to w
func (c *cli) open(w io.Writer) (*app.App, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, err
	}
	return start(cfg, w)
}

func start(cfg *config.Config, w io.Writer) (*app.App, error) {
	return app.New(cfg, logging.New(w, cfg.Log.Level, cfg.Log.Format))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "punch v%s\n", version)
		},
	}
}
