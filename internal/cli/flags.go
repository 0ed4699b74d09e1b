package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagepack/pkg/config"
	"github.com/matzehuels/pagepack/pkg/pipeline"
	"github.com/matzehuels/pagepack/pkg/units"
)

// mmValue is a flag holding a length in millimeters ("12.5" or "12.5mm").
type mmValue units.Mm

func (v *mmValue) String() string { return strconv.FormatFloat(float64(*v), 'g', -1, 64) }
func (v *mmValue) Type() string   { return "mm" }

func (v *mmValue) Set(s string) error {
	m, err := units.ParseMm(s)
	if err != nil {
		return err
	}
	*v = mmValue(m)
	return nil
}

// runFlags holds the page and image flags shared by pack and plan.
type runFlags struct {
	config         string
	paper          string
	dpi            int
	width          mmValue
	height         mmValue
	border         mmValue
	margin         mmValue
	maxImageWidth  mmValue
	maxImageHeight mmValue
	output         string
	skipUnreadable bool
	workers        int
	noCache        bool
	cacheURL       string
}

// register adds the shared flags to cmd with the pipeline defaults.
func (f *runFlags) register(cmd *cobra.Command) {
	f.dpi = pipeline.DefaultDPI
	f.width = mmValue(pipeline.DefaultWidth)
	f.height = mmValue(pipeline.DefaultHeight)
	f.border = mmValue(pipeline.DefaultBorder)
	f.margin = mmValue(pipeline.DefaultMargin)

	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "", "read settings from a TOML file")
	flags.StringVar(&f.paper, "paper", "", "named paper size (a3, a4, a5, letter, legal; add -landscape to turn)")
	flags.IntVar(&f.dpi, "dpi", f.dpi, "packing resolution in dots per inch")
	flags.Var(&f.width, "width", "page width in mm")
	flags.Var(&f.height, "height", "page height in mm")
	flags.Var(&f.border, "border", "free border along every page edge in mm")
	flags.Var(&f.margin, "margin", "gap between neighbouring images in mm")
	flags.Var(&f.maxImageWidth, "max-image-width", "shrink images wider than this (mm, 0 = no cap)")
	flags.Var(&f.maxImageHeight, "max-image-height", "shrink images taller than this (mm, 0 = no cap)")
	flags.BoolVar(&f.skipUnreadable, "skip-unreadable", false, "skip files that cannot be decoded instead of failing")
	flags.IntVar(&f.workers, "workers", 0, "concurrent image decodes (0 = one per CPU)")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the measurement cache")
	flags.StringVar(&f.cacheURL, "cache-url", "", "share measurements through Redis (redis://host:port/db)")

	_ = cmd.RegisterFlagCompletionFunc("paper", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.PaperNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagFilename("config", "toml")
}

// resolve builds the run options. Values come from the pipeline defaults,
// then the config file, then every flag set on the command line.
func (f *runFlags) resolve(cmd *cobra.Command) (pipeline.Options, cacheSettings, error) {
	opts := pipeline.DefaultOptions()
	var cs cacheSettings
	var widthSet, heightSet bool

	if f.config != "" {
		file, err := config.Load(f.config)
		if err != nil {
			return opts, cs, err
		}
		widthSet, heightSet = applyFile(&opts, &cs, file)
	}

	changed := cmd.Flags().Changed
	if changed("paper") {
		opts.Paper = f.paper
	}
	if changed("dpi") {
		opts.DPI = f.dpi
	}
	if changed("width") {
		opts.Width = units.Mm(f.width)
		widthSet = true
	}
	if changed("height") {
		opts.Height = units.Mm(f.height)
		heightSet = true
	}
	if changed("border") {
		opts.Border = units.Mm(f.border)
	}
	if changed("margin") {
		opts.Margin = units.Mm(f.margin)
	}
	if changed("max-image-width") {
		opts.MaxImageWidth = units.Mm(f.maxImageWidth)
	}
	if changed("max-image-height") {
		opts.MaxImageHeight = units.Mm(f.maxImageHeight)
	}
	if changed("output") {
		opts.Output = f.output
	}
	if changed("skip-unreadable") {
		opts.SkipUnreadable = f.skipUnreadable
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("no-cache") {
		cs.disabled = f.noCache
	}
	if changed("cache-url") {
		cs.url = f.cacheURL
	}

	// A paper preset only fills the sides nobody set explicitly.
	if opts.Paper != "" {
		if !widthSet {
			opts.Width = 0
		}
		if !heightSet {
			opts.Height = 0
		}
	}
	return opts, cs, nil
}

// applyFile copies every value set in file onto opts and cs. It reports
// whether the file set the page width and height.
func applyFile(opts *pipeline.Options, cs *cacheSettings, file *config.File) (widthSet, heightSet bool) {
	if file.Paper != "" {
		opts.Paper = file.Paper
	}
	if file.DPI != nil {
		opts.DPI = *file.DPI
	}
	if file.Width != nil {
		opts.Width = units.Mm(*file.Width)
		widthSet = true
	}
	if file.Height != nil {
		opts.Height = units.Mm(*file.Height)
		heightSet = true
	}
	if file.Border != nil {
		opts.Border = units.Mm(*file.Border)
	}
	if file.Margin != nil {
		opts.Margin = units.Mm(*file.Margin)
	}
	if file.MaxImageWidth != nil {
		opts.MaxImageWidth = units.Mm(*file.MaxImageWidth)
	}
	if file.MaxImageHeight != nil {
		opts.MaxImageHeight = units.Mm(*file.MaxImageHeight)
	}
	if file.Output != "" {
		opts.Output = file.Output
	}
	if file.SkipUnreadable != nil {
		opts.SkipUnreadable = *file.SkipUnreadable
	}
	if file.Workers != nil {
		opts.Workers = *file.Workers
	}
	cs.disabled = file.Cache.Disabled
	cs.url = file.Cache.URL
	return widthSet, heightSet
}
