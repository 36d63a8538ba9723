package main

import (
	"strings"

	"github.com/spf13/cobra"

	"xsearch/internal/config"
	"xsearch/internal/query"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List hashtag presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		p := query.NewPresets(cfg.Presets)
		for _, name := range p.Names() {
			tags, _ := p.Lookup(name)
			cmd.Printf("%s (%d)\n  %s\n", name, len(tags), strings.Join(tags, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
