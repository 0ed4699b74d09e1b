package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagepack/pkg/images"
	"github.com/matzehuels/pagepack/pkg/pipeline"
)

// packCommand creates the pack command, which runs the whole pipeline and
// writes the document.
func (c *CLI) packCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "pack <image|dir>...",
		Short: "Pack images onto pages and write a PDF",
		Long: `Pack images onto as few pages as possible and write them to a PDF.

Directories contribute every file directly inside them, in name order.
The document is only written once every image has been placed.`,
		Example: `  pagepack pack scans/ -o scans.pdf
  pagepack pack a.png b.jpg --paper letter --margin 2
  pagepack pack photos/ --max-image-width 90 --max-image-height 90`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cs, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runPack(cmd.Context(), cmd.OutOrStdout(), args, opts, cs)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", pipeline.DefaultOutput, "output PDF path")
	_ = cmd.MarkFlagFilename("output", "pdf")

	return cmd
}

func (c *CLI) runPack(ctx context.Context, w io.Writer, inputs []string, opts pipeline.Options, cs cacheSettings) error {
	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Packing images...")
	restore := withSpinnerHooks(spinner)
	spinner.Start()
	result, err := runner.Execute(ctx, inputs, opts)
	spinner.Stop()
	restore()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %s", plural(result.Stats.Images, "image")))

	fmt.Fprintln(w, renderAssignments(result.Plan.Placements))
	printSuccess("Wrote %s", plural(result.Stats.Pages, "page"))
	printStats(result.Stats.Images, result.Stats.Pages, result.Stats.Rotated)
	if n := countShrunk(result.Plan.Images); n > 0 {
		printWarning("%s shrunk to the size caps", plural(n, "image"))
	}
	printFile(result.Output)
	return nil
}

func countShrunk(descs []images.Descriptor) int {
	n := 0
	for _, d := range descs {
		if d.Shrunk() {
			n++
		}
	}
	return n
}
