package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spherical/pdf-content-extractor/internal/config"
	"github.com/spherical/pdf-content-extractor/internal/domain"
	"github.com/spherical/pdf-content-extractor/internal/extract"
	"github.com/spherical/pdf-content-extractor/internal/pdf"
)

const (
	version      = "1.0.0"
	usageMessage = "Usage: pdf-extractor <pdf_file>"
)

type cliFlags struct {
	configPath string
	baseline   bool
	verbose    bool
	progress   bool
	pretty     bool
	timeout    time.Duration
}

// exitCodeError is returned by the command to stop with a JSON error
// payload and a non-zero exit code.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// outputError marks a failure to write the result to stdout. Nothing more
// is written there once it happens.
type outputError struct{ err error }

func (e *outputError) Error() string { return "failed to write output: " + e.err.Error() }

func (e *outputError) Unwrap() error { return e.err }

// cliFailure is the payload for errors raised before extraction starts.
type cliFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. stdout only ever
// receives one JSON document.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var oe *outputError
	if errors.As(err, &oe) {
		fmt.Fprintln(stderr, oe.Error())
		return 1
	}

	code := 1
	var ec *exitCodeError
	if errors.As(err, &ec) {
		code = ec.code
	}
	if werr := writeJSON(stdout, cliFailure{Success: false, Error: err.Error()}, false); werr != nil {
		fmt.Fprintf(stderr, "failed to write output: %v\n", werr)
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "pdf-extractor [flags] <pdf-file>",
		Short: "Extract text, images and figure renders from a PDF as JSON",
		Long: `pdf-extractor reads a PDF and writes one JSON document to stdout with the
text of every page, the embedded raster images (base64) and, unless --baseline
is set, a full-page PNG render of pages whose text mentions a figure, chart,
graph or diagram. Diagnostics are written to stderr.

Environment Variables:
  PDF_EXTRACTOR_ENHANCED           Enable figure renders (default true)
  PDF_EXTRACTOR_RENDER_DPI         Figure render resolution (default 150)
  PDF_EXTRACTOR_MIN_RENDER_BYTES   Renders at or below this size are dropped (default 15000)
  PDF_EXTRACTOR_FIGURE_KEYWORDS    Comma-separated trigger keywords
  LOG_LEVEL, LOG_FORMAT            Diagnostics level and format (console or json)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &exitCodeError{code: 1, msg: usageMessage}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), args[0], flags, stdout, stderr)
		},
	}

	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("pdf-extractor version {{.Version}}\n")

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "config file path (YAML)")
	cmd.Flags().BoolVar(&flags.baseline, "baseline", false, "skip the figure heuristic and page renders")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug diagnostics")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show page progress on stderr")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "abort extraction after this duration (0 = no limit)")

	return cmd
}

func runExtract(ctx context.Context, pdfPath string, flags cliFlags, stdout, stderr io.Writer) error {
	if _, err := os.Stat(pdfPath); errors.Is(err, os.ErrNotExist) {
		return &exitCodeError{code: 1, msg: fmt.Sprintf("File not found: %s", pdfPath)}
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return &exitCodeError{code: 1, msg: err.Error()}
	}
	if flags.baseline {
		cfg.Extraction.Enhanced = false
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}

	logger := domain.NewLogger(domain.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})

	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	opts := extract.OptionsFromConfig(cfg.Extraction)
	opts.Logger = logger
	if flags.progress {
		progress := newPageProgress(stderr)
		opts.OnPage = progress.Update
		defer progress.Finish()
	}

	engine := pdf.NewEngine(pdf.Options{
		StrictValidation: cfg.Extraction.StrictValidation,
		Logger:           logger,
	})

	result := extract.NewService(engine, opts).Extract(ctx, pdfPath)
	if err := writeJSON(stdout, result, flags.pretty); err != nil {
		return &outputError{err: err}
	}
	return nil
}

// writeJSON encodes v without HTML escaping; non-ASCII text is written as is.
func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
