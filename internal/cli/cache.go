package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagepack/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the measurement cache",
		Long: `pagepack remembers the size of every image it has measured, keyed by file
content, size caps and margin, so repeated runs over the same images skip
decoding. A cache shared through --cache-url lives in Redis and is not
managed here.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// openFileCache opens the local measurement cache.
func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return store.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached measurements",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openFileCache()
			if err != nil {
				return err
			}
			n, err := store.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %s", plural(n, "cached measurement"))
			printDetail("Directory: %s", store.Dir())
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how many measurements are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openFileCache()
			if err != nil {
				return err
			}
			n, size, err := store.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", store.Dir())
			printKeyValue("Entries", fmt.Sprintf("%d", n))
			printKeyValue("Size", fmt.Sprintf("%.1f KiB", float64(size)/1024))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
