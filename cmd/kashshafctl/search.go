package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/searchengine"
)

var (
	searchModeName string
	offset         int
	limit          int
	bookIDsFlag    []string
)

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&searchModeName, "search-mode", "lemma", "surface | lemma | root")
	cmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	cmd.Flags().IntVar(&limit, "limit", 20, "result limit (transport layer caps this at 100)")
	cmd.Flags().StringSliceVar(&bookIDsFlag, "book-id", nil, "restrict to these book IDs (repeatable)")
}

// pagination applies the transport layer's limit cap of 100 before
// handing offset/limit to the core.
func pagination() searchengine.Pagination {
	l := limit
	if l > 100 {
		l = 100
	}
	return searchengine.Pagination{Offset: offset, Limit: l}
}

// filters parses --book-id into the book-ID set every search mode
// filters on; an empty slice applies no filter.
func filters() searchengine.Filters {
	ids := make([]uint64, 0, len(bookIDsFlag))
	for _, s := range bookIDsFlag {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			log.Fatal().Err(err).Str("book-id", s).Msg("invalid --book-id")
		}
		ids = append(ids, id)
	}
	return searchengine.Filters{BookIDs: ids}
}

func parseSearchMode() corpus.Mode {
	mode, err := corpus.ParseMode(searchModeName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid --search-mode")
	}
	return mode
}

var searchSimpleCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "single-term or phrase search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		term := corpus.SearchTerm{Query: args[0], Mode: parseSearchMode()}
		res, err := engine.SimpleSearch(term, filters(), pagination())
		if err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
		printResults(res)
	},
}

var (
	andTermsFlag []string
	orTermsFlag  []string
)

var searchCombinedCmd = &cobra.Command{
	Use:   "search-combined",
	Short: "AND/OR boolean combination of terms",
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		mode := parseSearchMode()
		req := searchengine.CombinedRequest{
			AndTerms: toSearchTerms(andTermsFlag, mode),
			OrTerms:  toSearchTerms(orTermsFlag, mode),
		}
		res, err := engine.CombinedSearch(req, filters(), pagination())
		if err != nil {
			log.Fatal().Err(err).Msg("combined search failed")
		}
		printResults(res)
	},
}

func toSearchTerms(queries []string, mode corpus.Mode) []corpus.SearchTerm {
	terms := make([]corpus.SearchTerm, len(queries))
	for i, q := range queries {
		terms[i] = corpus.SearchTerm{Query: q, Mode: mode}
	}
	return terms
}

var (
	proximityTerm1    string
	proximityTerm2    string
	proximityDistance int
)

var searchProximityCmd = &cobra.Command{
	Use:   "search-proximity",
	Short: "two terms within max-distance tokens of each other",
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		mode := parseSearchMode()
		t1 := corpus.SearchTerm{Query: proximityTerm1, Mode: mode}
		t2 := corpus.SearchTerm{Query: proximityTerm2, Mode: mode}
		res, err := engine.ProximitySearch(t1, t2, proximityDistance, filters(), pagination())
		if err != nil {
			log.Fatal().Err(err).Msg("proximity search failed")
		}
		printResults(res)
	},
}

var nameFormsFlag []string

var searchNameCmd = &cobra.Command{
	Use:   "search-name",
	Short: "multi-form name search; each --form is a comma-separated list of patterns",
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		forms := make([]searchengine.NameForm, len(nameFormsFlag))
		for i, raw := range nameFormsFlag {
			forms[i] = searchengine.NameForm{Patterns: strings.Split(raw, ",")}
		}
		res, err := engine.NameSearch(forms, filters(), pagination())
		if err != nil {
			log.Fatal().Err(err).Msg("name search failed")
		}
		printResults(res)
	},
}

var (
	wildcardModeName string
	wildcardRefine   bool
)

var searchWildcardCmd = &cobra.Command{
	Use:   "search-wildcard [query]",
	Short: "single-* wildcard surface search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine := openEngine()
		defer engine.Close()

		mode, err := corpus.ParseMode(wildcardModeName)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --search-mode")
		}
		term := corpus.SearchTerm{Query: args[0], Mode: mode}
		res, err := engine.WildcardSearch(term, filters(), pagination())
		if err != nil {
			log.Fatal().Err(err).Msg("wildcard search failed")
		}

		if wildcardRefine {
			for i := range res.Results {
				refined, err := engine.RefineWildcardPositions(res.Results[i].Page.Key(), args[0])
				if err != nil {
					log.Fatal().Err(err).Msg("wildcard highlight refinement failed")
				}
				if len(refined) > 0 {
					res.Results[i].MatchedTokenIndices = refined
				}
			}
		}
		printResults(res)
	},
}

func init() {
	addSearchFlags(searchSimpleCmd)

	addSearchFlags(searchCombinedCmd)
	searchCombinedCmd.Flags().StringSliceVar(&andTermsFlag, "and", nil, "AND term (repeatable)")
	searchCombinedCmd.Flags().StringSliceVar(&orTermsFlag, "or", nil, "OR term (repeatable)")

	addSearchFlags(searchProximityCmd)
	searchProximityCmd.Flags().StringVar(&proximityTerm1, "term1", "", "first term (required)")
	searchProximityCmd.Flags().StringVar(&proximityTerm2, "term2", "", "second term (required)")
	searchProximityCmd.Flags().IntVar(&proximityDistance, "distance", 5, "max token distance")
	searchProximityCmd.MarkFlagRequired("term1")
	searchProximityCmd.MarkFlagRequired("term2")

	addSearchFlags(searchNameCmd)
	searchNameCmd.Flags().StringSliceVar(&nameFormsFlag, "form", nil, "comma-separated patterns for one name form (repeatable)")

	// search-wildcard does not share addSearchFlags' --search-mode:
	// its default must be surface (wildcards reject every other mode).
	searchWildcardCmd.Flags().StringVar(&wildcardModeName, "search-mode", "surface", "surface | lemma | root (wildcards require surface)")
	searchWildcardCmd.Flags().IntVar(&offset, "offset", 0, "result offset")
	searchWildcardCmd.Flags().IntVar(&limit, "limit", 20, "result limit (transport layer caps this at 100)")
	searchWildcardCmd.Flags().StringSliceVar(&bookIDsFlag, "book-id", nil, "restrict to these book IDs (repeatable)")
	searchWildcardCmd.Flags().BoolVar(&wildcardRefine, "refine", false, "re-pin multi-word wildcard highlights to exact token offsets via the token cache")
}

func printResults(res *searchengine.SearchResults) {
	fmt.Printf("%q mode=%s total=%d elapsed=%dms\n", res.QueryDisplay, res.Mode, res.TotalHits, res.ElapsedMs)
	for _, r := range res.Results {
		fmt.Printf("  %s score=%.4f matched=%v %q\n", r.Page.Key(), r.Score, r.MatchedTokenIndices, truncate(r.Page.Body, 80))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
