package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nuskha/kashshaf/corpus"
)

// parsePageKey parses "book:part:page" into a corpus.PageKey, the
// inverse of corpus.PageKey.String (used as each get-* subcommand's
// single positional argument).
func parsePageKey(raw string) corpus.PageKey {
	var bookID, partIndex, pageID uint64
	n, err := fmt.Sscanf(raw, "%d:%d:%d", &bookID, &partIndex, &pageID)
	if err != nil || n != 3 {
		log.Fatal().Str("key", raw).Msg("page key must be book:part:page")
	}
	return corpus.PageKey{BookID: bookID, PartIndex: partIndex, PageID: pageID}
}

var getPageCmd = &cobra.Command{
	Use:   "get-page [book:part:page]",
	Short: "fetch one page's stored fields without running a search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		page, err := engine.GetPage(parsePageKey(args[0]))
		if err != nil {
			log.Fatal().Err(err).Msg("get-page failed")
		}
		fmt.Printf("%s %s/%s\n%s\n", page.Key(), page.PartLabel, page.PageNumber, page.Body)
	},
}

var getPageTokensCmd = &cobra.Command{
	Use:   "get-page-tokens [book:part:page]",
	Short: "fetch a page's hydrated token sequence",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		tokens, err := engine.GetPageTokens(parsePageKey(args[0]))
		if err != nil {
			log.Fatal().Err(err).Msg("get-page-tokens failed")
		}
		for _, t := range tokens {
			root := ""
			if t.Root != nil {
				root = *t.Root
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", t.Index, t.Surface, t.Lemma, root, t.POS)
		}
	},
}

var (
	matchPosTermQuery string
	matchPosModeName  string
)

var getMatchPositionsCmd = &cobra.Command{
	Use:   "get-match-positions [book:part:page]",
	Short: "compute highlight positions for one term on one page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		mode, err := corpus.ParseMode(matchPosModeName)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --search-mode")
		}
		term := corpus.SearchTerm{Query: matchPosTermQuery, Mode: mode}

		positions, err := engine.GetMatchPositions(parsePageKey(args[0]), term)
		if err != nil {
			log.Fatal().Err(err).Msg("get-match-positions failed")
		}
		fmt.Println(positions)
	},
}

var docCountCmd = &cobra.Command{
	Use:   "doc-count",
	Short: "report the number of documents in the index",
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		n, err := engine.DocCount()
		if err != nil {
			log.Fatal().Err(err).Msg("doc-count failed")
		}
		fmt.Println(n)
	},
}

func init() {
	getMatchPositionsCmd.Flags().StringVar(&matchPosTermQuery, "query", "", "term query (required)")
	getMatchPositionsCmd.Flags().StringVar(&matchPosModeName, "search-mode", "lemma", "surface | lemma | root")
	getMatchPositionsCmd.MarkFlagRequired("query")
}
