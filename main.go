package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile     string
	tablePath      string
	delay          time.Duration
	debugMode      bool
	album          string
	refetch        bool
	stripParens    bool
	aliasOnly      bool
	fetchAfterSeed bool
	expandOutput   bool
)

var rootCmd = &cobra.Command{
	Use:           "lyrics-scraper",
	Short:         "Scrape the lyrics of an artist's discography into a table",
	Long:          `A small tool that seeds a lyrics table from a discography manifest, fills missing lyrics from a lyrics site and expands repetition shorthand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed <discography.yaml>",
	Short: "Create the lyrics table from a discography manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}

		manifest, err := LoadManifest(args[0])
		if err != nil {
			return err
		}

		store, err := OpenStore(settings.TablePath, settings.Encoding)
		if err != nil {
			return err
		}
		defer store.Close()

		table := SeedTable(settings.Artist, manifest)
		if err := store.Save(cmd.Context(), table); err != nil {
			return fmt.Errorf("saving table: %w", err)
		}
		logrus.Infof("Seeded %s with %d tracks from %d albums", settings.TablePath, len(table.Rows), len(manifest.Albums))

		if !fetchAfterSeed {
			return nil
		}
		return runFill(cmd.Context(), settings, store, table)
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fetch lyrics for rows that have none yet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}

		store, err := OpenStore(settings.TablePath, settings.Encoding)
		if err != nil {
			return err
		}
		defer store.Close()

		table, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		return runFill(cmd.Context(), settings, store, table)
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand repetition shorthand such as <i>[x3]</i> in stored lyrics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}

		store, err := OpenStore(settings.TablePath, settings.Encoding)
		if err != nil {
			return err
		}
		defer store.Close()

		table, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}

		processor := &LyricsProcessor{store: store}
		_, err = processor.Expand(cmd.Context(), table)
		return err
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <artist> <title>",
	Short: "Fetch and print the lyrics of one song",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}

		fetcher, err := NewLyricsFetcher(settings.Site)
		if err != nil {
			return err
		}

		title := settings.AliasTable().ResolveTitle(args[1])
		result := fetcher.FetchLyrics(cmd.Context(), args[0], title)
		if !result.Found() {
			return fmt.Errorf("no lyrics for %q (%s): %s", args[1], result.URL, result.Status)
		}

		text := result.Text
		if expandOutput {
			text = ExpandRepetition(text)
		}
		fmt.Println(strings.TrimRight(text, "\n"))
		return nil
	},
}

func runFill(ctx context.Context, settings *Settings, store TableStore, table *Table) error {
	processor, err := NewLyricsProcessor(settings, store)
	if err != nil {
		return err
	}

	_, results, err := processor.Fill(ctx, table, FillOptions{
		Album:              album,
		Refetch:            refetch,
		StripParenthetical: stripParens,
		AliasOnly:          aliasOnly,
	})
	if err != nil {
		return err
	}

	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	logrus.Infof("Found: %d, Not found: %d, Transport errors: %d, Format errors: %d, Skipped: %d",
		counts[StatusFound], counts[StatusNotFound], counts[StatusTransportError],
		counts[StatusFormatError], counts[StatusSkipped])
	return nil
}

func buildOverrides(cmd *cobra.Command) *ConfigOverrides {
	overrides := &ConfigOverrides{}
	if configFile != "" {
		overrides.SettingsPath = &configFile
	}
	if tablePath != "" {
		overrides.TablePath = &tablePath
	}
	if cmd.Flags().Changed("delay") {
		overrides.Delay = &delay
	}
	return overrides
}

func setLogLevel() {
	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if debugMode {
		level = "debug"
	}

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to settings YAML file")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "Lyrics table path (overrides settings)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{seedCmd, fillCmd} {
		cmd.Flags().DurationVar(&delay, "delay", 60*time.Second, "Pause between requests (overrides settings)")
		cmd.Flags().StringVar(&album, "album", "", "Only process rows of this album")
		cmd.Flags().BoolVar(&refetch, "refetch", false, "Fetch selected rows even if they already have lyrics")
		cmd.Flags().BoolVar(&stripParens, "strip-parens", false, "Query the title before the first \" (\"")
		cmd.Flags().BoolVar(&aliasOnly, "alias-only", false, "Only query titles with an alias; mark the rest skipped")
	}
	seedCmd.Flags().BoolVar(&fetchAfterSeed, "fetch", false, "Fill lyrics right after seeding")
	fetchCmd.Flags().BoolVar(&expandOutput, "expand", false, "Expand repetition shorthand in the output")

	rootCmd.AddCommand(seedCmd, fillCmd, expandCmd, fetchCmd)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if IsInterrupted(err) {
			fmt.Fprintln(os.Stderr, "Interrupted, progress saved.")
			stop()
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
