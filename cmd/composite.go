package cmd

import (
	"context"
	"errors"

	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/util"
	"github.com/spf13/cobra"
)

type compositeOptions struct {
	Color      string
	Background string
	Format     string
	Output     string
}

var compositeOpts compositeOptions

var compositeCmd = &cobra.Command{
	Use:   "composite <foreground>",
	Short: "Place a foreground over a solid color or a background image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runComposite(cmd.Context(), args[0], compositeOpts)
	},
}

func init() {
	compositeCmd.Flags().StringVar(&compositeOpts.Color, "color", "", "Background color (#RRGGBB, #RGB or a CSS name)")
	compositeCmd.Flags().StringVarP(&compositeOpts.Background, "background", "b", "", "Background image path or URL")
	compositeCmd.Flags().StringVarP(&compositeOpts.Format, "format", "f", "PNG", "Output format: PNG or JPEG")
	compositeCmd.Flags().StringVarP(&compositeOpts.Output, "output", "o", "", "Output path (default: composite.png or composite.jpg)")
	compositeCmd.MarkFlagsMutuallyExclusive("color", "background")
	compositeCmd.MarkFlagsOneRequired("color", "background")
	rootCmd.AddCommand(compositeCmd)
}

func runComposite(ctx context.Context, src string, opts compositeOptions) error {
	fg, err := util.ReadImageBytes(ctx, nil, src)
	if err != nil {
		return err
	}

	bg, err := compositeBackground(ctx, opts)
	if err != nil {
		return err
	}

	format := compose.ParseFormat(opts.Format)
	out := opts.Output
	if out == "" {
		out = "composite." + format.Ext()
	}

	p, err := newCompositor().CompositeBytes(ctx, fg, bg, format)
	if err != nil {
		return err
	}
	if err := util.WriteFile(out, p.Data); err != nil {
		return err
	}
	printDone(rootCmd.OutOrStdout(), "composite", out, len(p.Data))
	return nil
}

func compositeBackground(ctx context.Context, opts compositeOptions) (compose.BackgroundSpec, error) {
	switch {
	case opts.Color != "":
		c, err := compose.ParseColor(opts.Color)
		if err != nil {
			return compose.BackgroundSpec{}, err
		}
		return compose.ColorBackground(c), nil
	case opts.Background != "":
		data, err := util.ReadImageBytes(ctx, nil, opts.Background)
		if err != nil {
			return compose.BackgroundSpec{}, err
		}
		return compose.ImageBackground(data), nil
	default:
		return compose.BackgroundSpec{}, errors.New("one of --color or --background is required")
	}
}
