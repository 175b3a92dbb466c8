package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/pipeline"
	"github.com/turtacn/SciText-Prep/internal/token"
)

// newTokenizeCommand builds the tokenize subcommand: convert normalized
// texts into entity-aware token sequences.
func newTokenizeCommand(d *deps) *cobra.Command {
	var (
		inputPath    string
		useEntities  bool
		sentences    bool
		excludePunct bool
	)

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Convert normalized texts into entity-aware token sequences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source := pipeline.SourceNormalized
			var texts []string
			if inputPath != "" {
				var err error
				if texts, err = readLines(inputPath); err != nil {
					return fmt.Errorf("reading input %q: %w", inputPath, err)
				}
				source = pipeline.SourceExplicit
				if useEntities {
					d.logger.Warn("entity-aware tokenization needs session texts; tokenizing plain")
					useEntities = false
				}
			} else {
				if err := d.pipeline.Restore(d.session); err != nil {
					return err
				}
				d.logger.Info("session restored",
					logging.Int("texts", len(d.session.NormalizedTexts)))
			}

			results, err := d.pipeline.Tokenize(cmd.Context(), d.session, texts, source, token.Options{
				UseEntities:   useEntities,
				KeepSentences: sentences,
				ExcludePunct:  excludePunct,
			})
			if err != nil {
				return err
			}

			idxs := make([]int, 0, len(results))
			for i := range results {
				idxs = append(idxs, i)
			}
			sort.Ints(idxs)
			for _, i := range idxs {
				r := results[i]
				if r.Sentences != nil {
					for _, s := range r.Sentences {
						fmt.Fprintln(cmd.OutOrStdout(), strings.Join(s, " "))
					}
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(r.Tokens, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file with one text per line (default: saved session texts)")
	cmd.Flags().BoolVar(&useEntities, "entities", true, "keep entity names as single underscore-joined tokens")
	cmd.Flags().BoolVar(&sentences, "sentences", false, "emit one token sequence per sentence")
	cmd.Flags().BoolVar(&excludePunct, "exclude-punct", false, "drop bare punctuation tokens")

	return cmd
}
