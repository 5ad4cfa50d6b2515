// Command marginote extracts highlights, notes, and other margin
// annotations from a PDF and writes them as a markdown, JSON, or HTML
// report.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marginote/marginote"
	"github.com/marginote/marginote/model"
	"github.com/marginote/marginote/render"
)

var log = logrus.New()

type options struct {
	infile      string
	outfile     string
	format      render.Format
	columns     int
	autoColumns bool
	password    string
	verbose     bool
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "marginote: %v\n", err)
		os.Exit(2)
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "marginote: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: marginote [flags] [INFILE]\n\n"+
			"Extract PDF annotations into a readable report. With no INFILE, the\n"+
			"first PDF in the working directory is used.\n\n")
		flag.PrintDefaults()
	}
	outfile := flag.String("o", "", `output file, "-" for stdout (default <date>-<name>.md)`)
	formatName := flag.String("format", "", "output format: md, json, or html (default inferred from -o, else md)")
	columns := flag.Int("n", 1, "number of text columns per page")
	flag.IntVar(columns, "cols", 1, "number of text columns per page")
	autoColumns := flag.Bool("auto-columns", false, "estimate the column count from the text layout")
	password := flag.String("password", "", "password for encrypted PDFs")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		return options{}, fmt.Errorf("expected at most one input file")
	}

	opts.infile = flag.Arg(0)
	if opts.infile == "" {
		infile, err := defaultInput()
		if err != nil {
			return options{}, err
		}
		opts.infile = infile
	}

	opts.format = render.FormatMarkdown
	switch {
	case *formatName != "":
		f, err := render.ParseFormat(*formatName)
		if err != nil {
			return options{}, err
		}
		opts.format = f
	case *outfile != "" && *outfile != "-":
		if f, ok := render.DetectPath(*outfile); ok {
			opts.format = f
		}
	}

	opts.outfile = *outfile
	if opts.outfile == "" {
		base := filepath.Base(opts.infile)
		stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
		opts.outfile = time.Now().Format("2006-01-02") + "-" + stem + opts.format.Extension()
	}

	if *columns < 1 {
		return options{}, fmt.Errorf("columns must be at least 1, got %d", *columns)
	}
	opts.columns = *columns
	opts.autoColumns = *autoColumns
	opts.password = *password
	opts.verbose = *verbose
	return opts, nil
}

// defaultInput picks the first PDF in the working directory, for running
// the command bare inside a directory of papers.
func defaultInput() (string, error) {
	for _, pattern := range []string{"*.pdf", "*.PDF"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("no PDF file under the current directory")
}

func run(opts options) error {
	ext := marginote.Open(opts.infile).WithColumns(opts.columns)
	if opts.autoColumns {
		ext = ext.WithAutoColumns()
	}
	if opts.password != "" {
		ext = ext.WithPassword(opts.password)
	}

	log.WithFields(logrus.Fields{
		"file":   opts.infile,
		"format": opts.format,
	}).Debug("Extracting annotations")

	out, closeOut, err := openOutput(opts.outfile)
	if err != nil {
		return err
	}

	var warnings []marginote.Warning
	switch opts.format {
	case render.FormatJSON:
		warnings, err = ext.JSON(out)
	case render.FormatHTML:
		warnings, err = ext.HTML(out)
	default:
		warnings, err = ext.Markdown(out)
	}
	logWarnings(warnings)
	if err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if opts.outfile != "-" {
		log.WithField("output", opts.outfile).Debug("Report written")
	}
	return nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// logWarnings reports extraction problems. A document without an outline is
// ordinary enough to note at info level only.
func logWarnings(warnings []marginote.Warning) {
	for _, w := range warnings {
		entry := log.WithField("code", string(w.Code))
		if w.Page > 0 {
			entry = entry.WithField("page", w.Page)
		}
		if w.Code == model.WarnNoOutline {
			entry.Info(w.Message)
		} else {
			entry.Warn(w.Message)
		}
	}
}
