package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"xsearch/internal/cmdlog"
	"xsearch/internal/config"
	"xsearch/internal/ingest"
	"xsearch/internal/jobs"
	"xsearch/internal/logging"
	"xsearch/internal/metrics"
	"xsearch/internal/theme"
	"xsearch/internal/xclient"
)

var (
	searchHashtags []string
	searchPreset   string
	searchSince    string
	searchUntil    string
	searchLang     string
	searchLimit    int
	searchFormat   string
	searchNoWait   bool
	searchDebug    bool
)

// now is swapped in tests.
var now = time.Now

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search recent posts for a hashtag group",
	Long: `Searches recent posts matching any of the given hashtags (or a preset group),
optionally restricted to a language and a date range, and saves them under the output directory.

Dates are YYYY-MM-DD in UTC. --until today is moved 20 seconds into the past.
Rate limits, rejected queries and network failures end the search early; posts collected
so far are still saved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmdlog.Run("search", func() error { return runSearch(cmd) })
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&searchHashtags, "hashtags", nil, "hashtags or terms to OR together (comma separated or repeated)")
	f.StringVar(&searchPreset, "preset", "", "use a preset group of hashtags (see 'xsearch presets')")
	f.StringVar(&searchSince, "since", "", "start date YYYY-MM-DD, inclusive")
	f.StringVar(&searchUntil, "until", "", "end date YYYY-MM-DD, inclusive")
	f.StringVar(&searchLang, "lang", "", "ISO 639-1 language filter, e.g. es or en")
	f.IntVar(&searchLimit, "limit", 0, "maximum number of posts to fetch (0 for no limit)")
	f.StringVar(&searchFormat, "format", "", "output format: csv, xlsx, json or sqlite (default from config)")
	f.BoolVar(&searchNoWait, "no-wait", false, "do not sleep on rate limits; keep partial results")
	f.BoolVar(&searchDebug, "debug", false, "log request details and troubleshooting tips")
	searchCmd.MarkFlagsMutuallyExclusive("hashtags", "preset")
	searchCmd.MarkFlagsOneRequired("hashtags", "preset")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command) error {
	logging.SetVerbose(searchDebug)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if searchLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", searchLimit)
	}

	opts := jobs.SearchOptions{
		Hashtags: searchHashtags,
		Preset:   searchPreset,
		Lang:     strings.TrimSpace(searchLang),
		Since:    searchSince,
		Until:    searchUntil,
		Limit:    searchLimit,
		Format:   searchFormat,
	}
	if searchDebug {
		plan, err := jobs.Prepare(cfg, opts, now())
		if err != nil {
			return err
		}
		printPlan(cmd, opts, plan)
	}

	client := xclient.NewHTTPClient(cfg.Credentials.BearerToken, xclient.Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		MaxAttempts:     cfg.API.MaxAttempts,
		BaseBackoff:     time.Duration(cfg.API.BaseBackoffMs) * time.Millisecond,
		RPS:             cfg.API.RPS,
		Burst:           cfg.API.Burst,
		WaitOnRateLimit: !searchNoWait,
	})
	out, err := jobs.RunSearch(cmd.Context(), client, cfg, opts, now)
	if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		logging.Warn("metrics_textfile_error", map[string]any{"path": cfg.Metrics.Textfile, "error": werr.Error()})
	}
	if err != nil {
		return err
	}

	if searchDebug {
		limit, remaining, reset := client.RateLimit()
		logging.Debug("search_done", map[string]any{
			"stop":           string(out.Stop),
			"pages":          out.Pages,
			"rate_limit":     limit,
			"rate_remaining": remaining,
			"rate_reset":     reset,
		})
	}
	if out.Path == "" {
		cmd.Print(theme.NoResults(out.StopErr))
		return nil
	}
	cmd.Println(theme.Success(len(out.Records), out.Path))
	if out.Stop == ingest.StopError || out.Stop == ingest.StopCanceled {
		cmd.Println("Search ended early:", out.StopErr)
	}
	return nil
}

func printPlan(cmd *cobra.Command, opts jobs.SearchOptions, plan jobs.Plan) {
	preset := opts.Preset
	if preset == "" {
		preset = "custom hashtags"
	}
	lang := opts.Lang
	if lang == "" {
		lang = "any"
	}
	limit := "none"
	if opts.Limit > 0 {
		limit = strconv.Itoa(opts.Limit)
	}
	cmd.Print(theme.Plan([][2]string{
		{"Preset", preset},
		{"Query", plan.Params.Query},
		{"Language filter", lang},
		{"Time range", plan.Params.Window.String()},
		{"Page size", strconv.Itoa(ingest.PageSize)},
		{"Limit", limit},
		{"Format", string(plan.Format)},
		{"Wait on rate limit", strconv.FormatBool(!searchNoWait)},
	}))
}
