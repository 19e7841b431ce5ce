package cmd

import (
	"context"
	"errors"

	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/util"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	Output        string
	Trim          bool
	Square        bool
	TrimThreshold uint8
}

var extractOpts extractOptions

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Cut the foreground out of a local image or URL and save it as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runExtract(cmd.Context(), args[0], extractOpts)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOpts.Output, "output", "o", "foreground.png", "Path to the output PNG")
	extractCmd.Flags().BoolVar(&extractOpts.Trim, "trim", false, "Crop the result to the subject")
	extractCmd.Flags().BoolVar(&extractOpts.Square, "square", false, "With --trim, crop to a centered square")
	extractCmd.Flags().Uint8Var(&extractOpts.TrimThreshold, "trim-threshold", 204, "Alpha above which a pixel counts as subject for --trim")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(ctx context.Context, src string, opts extractOptions) error {
	if opts.Output == "" {
		return errors.New("--output must not be empty")
	}

	raw, err := util.ReadImageBytes(ctx, nil, src)
	if err != nil {
		return err
	}
	var extra []compose.Option
	if opts.Trim {
		extra = append(extra, compose.WithTrim(opts.TrimThreshold, opts.Square))
	}
	extractor, err := newExtractor(extra...)
	if err != nil {
		return err
	}
	p, err := extractor.ExtractPayload(ctx, raw)
	if err != nil {
		return err
	}
	if err := util.WriteFile(opts.Output, p.Data); err != nil {
		return err
	}
	printDone(rootCmd.OutOrStdout(), "foreground", opts.Output, len(p.Data))
	return nil
}
