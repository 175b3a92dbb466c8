package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/pipeline"
)

// newNormalizeCommand builds the normalize subcommand: clean abstracts,
// resolve chemical entities, and rewrite each text with canonical names.
func newNormalizeCommand(d *deps) *cobra.Command {
	var (
		inputPath string
		noClean   bool
		resume    bool
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Clean abstracts and canonicalize chemical entity mentions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			texts, err := readLines(inputPath)
			if err != nil {
				return fmt.Errorf("reading input %q: %w", inputPath, err)
			}

			if resume {
				if err := d.pipeline.Restore(d.session); err != nil {
					return err
				}
				d.logger.Info("session restored",
					logging.Int("texts", len(d.session.NormalizedTexts)))
			}

			source := pipeline.SourceCleaned
			if noClean {
				source = pipeline.SourceExplicit
			}
			if err := d.pipeline.Normalize(cmd.Context(), d.session, texts, source); err != nil {
				return err
			}

			d.logger.Info("normalization complete",
				logging.Int("normalized", len(d.session.NormalizedTexts)),
				logging.Int("dropped", len(d.session.DroppedIdxs)),
				logging.Int("timed_out", len(d.session.State.TimedOut())))
			for _, out := range d.session.NormalizedTexts {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file with one abstract per line")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "skip abstract cleaning heuristics")
	cmd.Flags().BoolVar(&resume, "resume", false, "restore a saved session before processing")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
