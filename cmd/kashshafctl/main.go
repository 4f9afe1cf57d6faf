// Command kashshafctl is a demo CLI over the query engine: it opens a
// corpus (bleve index directory + sqlite metadata store) and runs one
// of the five search modes or a page lookup, printing results as
// plain text. It is the transport-facing edge the core has none of:
// flags, logging, and process exit codes live here, never in
// searchengine or tokencache.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nuskha/kashshaf/searchengine"
)

var (
	indexDir  string
	storePath string
	cacheSize int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "kashshafctl",
	Short: "query engine for a morphologically annotated Arabic corpus",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&indexDir, "index-dir", "", "bleve index directory (required)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "sqlite metadata store path (required)")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 1000, "token cache capacity, in pages")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.MarkPersistentFlagRequired("index-dir")
	rootCmd.MarkPersistentFlagRequired("store")

	rootCmd.AddCommand(searchSimpleCmd, searchCombinedCmd, searchProximityCmd, searchNameCmd, searchWildcardCmd)
	rootCmd.AddCommand(getPageCmd, getPageTokensCmd, getMatchPositionsCmd, docCountCmd)
}

// openEngine opens the corpus from the persistent --index-dir/--store
// flags. Construction failures are fatal for the CLI process, logged
// once here; the core itself never logs.
func openEngine() *searchengine.Engine {
	engine, err := searchengine.Open(searchengine.Config{
		IndexDir:           indexDir,
		MetadataStorePath:  storePath,
		TokenCacheCapacity: cacheSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open corpus")
	}
	return engine
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("kashshafctl failed")
	}
}
