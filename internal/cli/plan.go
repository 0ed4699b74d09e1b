package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	ppio "github.com/matzehuels/pagepack/pkg/io"
	"github.com/matzehuels/pagepack/pkg/pipeline"
)

// planOpts holds the output flags of the plan command.
type planOpts struct {
	json   bool
	export string
	browse bool
}

// planCommand creates the plan command, which packs without writing a
// document.
func (c *CLI) planCommand() *cobra.Command {
	var f runFlags
	var po planOpts

	cmd := &cobra.Command{
		Use:   "plan <image|dir>...",
		Short: "Show the page assignment without writing a PDF",
		Long: `Measure and pack images exactly like pack does, then print which image
went to which page instead of writing the document.`,
		Example: `  pagepack plan scans/
  pagepack plan scans/ --json > plan.json
  pagepack plan scans/ --browse`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cs, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), cmd.OutOrStdout(), args, opts, cs, po)
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&po.json, "json", false, "print the plan as JSON")
	cmd.Flags().StringVar(&po.export, "export", "", "also write the plan as JSON to this file")
	cmd.Flags().BoolVar(&po.browse, "browse", false, "browse the pages interactively")
	cmd.MarkFlagsMutuallyExclusive("json", "browse")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, w io.Writer, inputs []string, opts pipeline.Options, cs cacheSettings, po planOpts) error {
	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return err
	}
	defer runner.Close()

	plan, err := runner.Plan(ctx, inputs, opts)
	if err != nil {
		return err
	}
	if err := plan.Verify(); err != nil {
		return err
	}

	if po.export != "" {
		if err := ppio.ExportJSON(plan, po.export); err != nil {
			return err
		}
		c.Logger.Info("exported plan", "path", po.export)
	}

	switch {
	case po.json:
		return ppio.WriteJSON(plan, w)
	case po.browse:
		_, err := tea.NewProgram(NewPageBrowserModel(plan.Placements), tea.WithContext(ctx)).Run()
		return err
	}

	geo := plan.Geometry
	printKeyValue("Page", fmt.Sprintf("%s x %s", geo.PageWidth, geo.PageHeight))
	printKeyValue("Container", fmt.Sprintf("%s px at %d dpi", geo.Container, geo.Frame.DPI))
	printKeyValue("Margin", fmt.Sprintf("%d px per side", geo.Limits.Margin))
	fmt.Fprintln(w, renderAssignments(plan.Placements))
	printStats(plan.Stats.Images, plan.Stats.Pages, plan.Stats.Rotated)
	printNextStep("Write the document", appName+" pack "+strings.Join(inputs, " "))
	return nil
}
