package cmd

import (
	"fmt"
	"io"

	"github.com/chaos-io/cutout/compose"
	"github.com/chaos-io/cutout/rembg"
	"github.com/fatih/color"
)

func newExtractor(extra ...compose.Option) (*compose.Extractor, error) {
	seg, err := rembg.New(rembg.Config{
		Backend:      cfg.RemBG.Backend,
		URL:          cfg.RemBG.URL,
		Timeout:      cfg.RemBG.Timeout,
		PollInterval: cfg.RemBG.PollInterval,
	}, logger.Named("rembg"))
	if err != nil {
		return nil, err
	}
	opts := []compose.Option{
		compose.WithLogger(logger.Named("extract")),
		compose.WithMaxSide(cfg.MaxSide),
	}
	if cfg.SkipTransparent {
		opts = append(opts, compose.WithSkipTransparent())
	}
	return compose.NewExtractor(seg, append(opts, extra...)...), nil
}

func newCompositor() *compose.Compositor {
	return compose.NewCompositor(
		compose.WithLogger(logger.Named("compose")),
		compose.WithJPEGQuality(cfg.JPEGQuality),
	)
}

func printDone(w io.Writer, what, path string, size int) {
	color.New(color.FgGreen, color.Bold).Fprint(w, "✓ ")
	fmt.Fprintf(w, "%s written to ", what)
	color.New(color.FgCyan).Fprint(w, path)
	color.New(color.FgHiBlack).Fprintf(w, " (%d bytes)\n", size)
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
	fmt.Fprintln(w, err)
	if kind := compose.KindOf(err); kind != compose.KindUnknown {
		color.New(color.FgHiBlack).Fprintf(w, "  kind: %s\n", kind)
	}
}
