package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/sethrylan/feishu-reader/internal/config"
	"github.com/sethrylan/feishu-reader/internal/feishu"
	"github.com/sethrylan/feishu-reader/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	configPath string
	department string
	verbose    bool
)

// logger is the logger handed to the client built for the running command.
var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "feishu-reader",
	Short: "Read-only Feishu directory CLI",
	Long: `A CLI tool for reading the Feishu contact directory and chat list with app credentials.

Credentials come from FEISHU_APP_ID and FEISHU_APP_SECRET (or a .env file, or --config).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := execute(context.Background()); err != nil {
		output.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the root command and flushes the command's logger before
// returning, so buffered entries are not lost to os.Exit.
func execute(ctx context.Context) error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
			logger = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $FEISHU_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&department, "department", "", "Home department id (skips auto-discovery)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
}

// newClient builds a feishu.Client from config and the persistent flags.
func newClient() (*feishu.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	l, err := newLogger(verbose)
	if err != nil {
		return nil, err
	}
	logger = l

	opts := []feishu.Option{
		feishu.WithBaseURL(cfg.BaseURL),
		feishu.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		feishu.WithLogger(logger),
	}
	if cfg.AccessToken != "" {
		opts = append(opts, feishu.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	}
	client := feishu.NewClient(cfg.AppID, cfg.AppSecret, opts...)

	home := cfg.HomeDepartment
	if department != "" {
		home = department
	}
	if home != "" {
		client.SetHomeDepartment(home)
	}
	return client, nil
}

var newLogger = func(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// printJSON writes v to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	return output.PrintJSON(cmd.OutOrStdout(), v)
}
