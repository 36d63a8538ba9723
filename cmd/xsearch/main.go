package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"xsearch/internal/config"
	"xsearch/internal/theme"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "xsearch",
	Short: "Search recent X posts by hashtag and export them",
	Long: `xsearch queries the X recent search API for posts matching a hashtag group,
normalizes them into flat records and writes one csv, xlsx, json or sqlite file per run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		theme.PrintBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
