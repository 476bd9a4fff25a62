package main

import (
	"io"
	"os"
	"regexp"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
	mxml "github.com/tdewolff/minify/v2/xml"

	"github.com/maptools/geoport/internal/formats"
	"github.com/maptools/geoport/internal/logger"
	"github.com/maptools/geoport/internal/report"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  string `short:"i" long:"in"     description:"Input file path. Reads from stdin if empty"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	From   string `short:"f" long:"from"   description:"Input format" choice:"geojson" choice:"gpx" choice:"kml" choice:"csv" choice:"osm" choice:"georss" required:"true"`
	To     string `short:"t" long:"to"     description:"Output format" choice:"geojson" choice:"gpx" choice:"kml" choice:"csv" default:"geojson"`
	Minify bool   `short:"m" long:"minify" description:"Minify JSON/XML output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	from, err := formats.ParseFormat(opts.From)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input format")
	}
	to, err := formats.ParseFormat(opts.To)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid output format")
	}
	descriptor, err := formats.Descriptor(to)
	if err != nil {
		log.Fatal().Err(err).Msg("Format has no exporter")
	}

	// Read input
	var inputData []byte
	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to read input file")
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read stdin")
		}
	}

	pipeline := formats.NewPipeline(report.NewReporter(nil))

	fc, err := pipeline.Parse(string(inputData), from)
	if err != nil {
		log.Fatal().Err(err).Str("format", string(from)).Msg("Import failed")
	}

	out, err := formats.Export(fc, to)
	if err != nil {
		log.Fatal().Err(err).Str("format", string(to)).Msg("Export failed")
	}

	if opts.Minify {
		out = minifyOutput(out, descriptor.MimeType)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(out), 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
		log.Info().
			Int("features", len(fc.Features)).
			Str("from", string(from)).
			Str("to", string(to)).
			Str("path", opts.Output).
			Msg("Conversion done")
	} else {
		if _, err := os.Stdout.WriteString(out); err != nil {
			log.Fatal().Err(err).Msg("Failed to write stdout")
		}
	}
}

// minifyOutput compacts JSON and XML exports; other media types pass
// through unchanged.
func minifyOutput(out, mimeType string) string {
	m := minify.New()
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), mjson.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`[/+]xml$`), mxml.Minify)

	minified, err := m.String(mimeType, out)
	if err != nil {
		log.Warn().Err(err).Str("mime", mimeType).Msg("Minify skipped")
		return out
	}
	return minified
}
