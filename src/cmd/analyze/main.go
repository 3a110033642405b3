package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ghost-overlay/src/clipboard"
	"ghost-overlay/src/config"
	"ghost-overlay/src/llm"
	"ghost-overlay/src/logutil"
	"ghost-overlay/src/messages"
	"ghost-overlay/src/runtimeinit"
	"ghost-overlay/src/screenshot"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

type cliOptions struct {
	filePath   string
	capture    bool
	jsonOutput bool
	copy       bool
	verbose    bool
	apiKeyPath string
	envPath    string
}

func main() {
	if err := runWithArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := &cliOptions{}
	cmd := newRootCmd(opts, stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ghost-analyze",
		Short:         "Analyze an image or the current screen with Gemini",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if (opts.filePath == "") == !opts.capture {
				return fmt.Errorf("exactly one of --file or --capture is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, stdin, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG or JPEG file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.capture, "capture", false, "Capture the primary display instead of reading a file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Also copy the analysis to the clipboard")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	cmd.Flags().StringVar(&opts.envPath, "env", "", "Path to .env file")
	return cmd
}

func runWithOptions(ctx context.Context, opts cliOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Only the result goes to stdout; logs are opt-in on stderr.
	if opts.verbose {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, client, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			APIKeyPathOverride: opts.apiKeyPath,
			EnvPathOverride:    opts.envPath,
		},
		RequireClient: true,
	})
	if err != nil {
		return err
	}
	verbosef(opts, stderr, "Config loaded: Model=%s BaseURL=%s Key=%s", cfg.Model, cfg.BaseURL, logutil.RedactKey(cfg.APIKey))

	source := opts.filePath
	var img messages.Capture
	if opts.capture {
		source = "screen"
		img, err = screenshot.NewAdapter(nil, 0).Capture(ctx)
	} else {
		img, err = readImage(opts.filePath, stdin)
	}
	if err != nil {
		return err
	}
	verbosef(opts, stderr, "Read %d bytes (%s) from %s", len(img.Data), img.MimeType, source)

	return analyze(ctx, client, img, source, opts, stdout, stderr)
}

func readImage(path string, stdin io.Reader) (messages.Capture, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
		if err != nil {
			return messages.Capture{}, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return messages.Capture{}, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}

	if len(data) == 0 {
		return messages.Capture{}, fmt.Errorf("input is empty")
	}
	if len(data) > maxFileSize {
		return messages.Capture{}, fmt.Errorf("input exceeds maximum size of %d MB", maxFileSizeMB)
	}
	mime, err := imageMimeType(data)
	if err != nil {
		return messages.Capture{}, err
	}
	return messages.Capture{Data: data, MimeType: mime}, nil
}

func imageMimeType(data []byte) (string, error) {
	switch mime := http.DetectContentType(data); mime {
	case "image/png", "image/jpeg":
		return mime, nil
	default:
		return "", fmt.Errorf("input is not a PNG or JPEG image (detected %s)", mime)
	}
}

type AnalysisResult struct {
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Model     string  `json:"model"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func analyze(ctx context.Context, client *llm.Client, img messages.Capture, source string, opts cliOptions, stdout, stderr io.Writer) error {
	start := time.Now()
	text, err := client.AnalyzeImage(ctx, img.Data, img.MimeType)
	elapsed := time.Since(start)
	if err != nil {
		verbosef(opts, stderr, "Analysis failed after %v: %v", elapsed, err)
		return errors.New(messages.AsError(err).Status())
	}
	verbosef(opts, stderr, "Analysis completed in %v (%d chars)", elapsed, len(text))

	if opts.copy {
		if err := clipboard.Write(text); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	}

	if !opts.jsonOutput {
		_, err := fmt.Fprint(stdout, text)
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(AnalysisResult{
		Text:      text,
		Source:    source,
		Model:     client.Model(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
		CharCount: len(text),
	}); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func verbosef(opts cliOptions, stderr io.Writer, format string, args ...any) {
	if opts.verbose {
		fmt.Fprintf(stderr, "[verbose] "+format+"\n", args...)
	}
}
