package cli

import (
	"github.com/spf13/cobra"

	ppio "github.com/matzehuels/pagepack/pkg/io"
)

// checkCommand creates the check command, which verifies an exported plan.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <plan.json>",
		Short: "Verify a plan exported with plan --json",
		Long: `Check that every image in an exported plan appears once, at its own
size, inside the page and without overlapping another image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := ppio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			printSuccess("Plan is valid")
			printDetail("%s on %s, %s px container",
				plural(len(layout.Images), "image"), plural(len(layout.Pages), "page"), layout.Container)
			return nil
		},
	}
}
