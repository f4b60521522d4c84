package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klabast/wb-services/programacao/internal/app"
	"github.com/klabast/wb-services/programacao/internal/export"
	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
	"github.com/klabast/wb-services/programacao/internal/week"
)

// Export handles the export subcommand. It renders the week containing
// -date in one of the download formats and writes it to -out, or to stdout
// when -out is "-".
func Export(args []string, stdout io.Writer) error {
	cfg := app.LoadConfig()
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	bindStorageFlags(fs, &cfg)
	date := fs.String("date", time.Now().Format(week.DateLayout), "Any date of the week to export (YYYY-MM-DD)")
	format := fs.String("format", export.FormatPNG, "Output format: png, ics, csv, json or xlsx")
	out := fs.String("out", "", "Output file, \"-\" for stdout (default: derived from the week label)")
	fs.IntVar(&cfg.ExportScale, "scale", cfg.ExportScale, "Pixel density of the png export")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: programacao export [OPTIONS]\n\n")
		fmt.Fprintf(fs.Output(), "Writes the schedule of one week to a file.\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, ok := export.ContentType(*format); !ok {
		return fmt.Errorf("unknown format %q", *format)
	}
	ref, err := time.ParseInLocation(week.DateLayout, *date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", *date, err)
	}

	ctx := context.Background()
	backing, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backing.Close()

	registry := sources.NewRegistry(backing)
	if err := registry.Load(ctx); err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	store := schedule.NewStore(backing, registry)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load activities: %w", err)
	}

	wk := export.Week{Window: week.WindowFor(ref), Activities: store.List()}
	var data []byte
	if *format == export.FormatPNG {
		data, err = export.PNG(wk, export.PNGOptions{Scale: cfg.ExportScale})
	} else {
		data, err = export.Render(*format, wk)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", *format, err)
	}

	if *out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	path := *out
	if path == "" {
		path = export.FileName(wk.Window.Label, *format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s (%d activities, %s)\n", path, len(wk.Activities), wk.Window.Label)
	return nil
}
