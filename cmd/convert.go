// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// open container → adapt to the document model → normalize → write.
//
// It handles flag validation, output-mode selection, and the --all batch mode.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/bookpipe/core"
	"github.com/gaurav-prasanna/bookpipe/core/output"
	"github.com/gaurav-prasanna/bookpipe/core/pipeline"
	"github.com/gaurav-prasanna/bookpipe/core/render"
	"github.com/gaurav-prasanna/bookpipe/scan"
)

// Flag variables.
var (
	flagOutput   string
	flagSingle   bool
	flagNoImages bool
	flagJSON     bool
	flagPDF      bool
	flagAll      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert an EPUB or DOCX file to the specified output format",
	Long: `Convert opens a document container, converts its content to Markdown, and
writes a chapter folder (default), a single Markdown file, JSON, or PDF.

Examples:
  bookpipe convert book.epub
  bookpipe convert book.epub --single -o book.md
  bookpipe convert report.docx --no-images
  bookpipe convert book.epub --json
  bookpipe convert ./library --all`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output path (directory for folder mode, file otherwise)")
	convertCmd.Flags().BoolVarP(&flagSingle, "single", "s", false, "Write one combined Markdown file instead of a chapter folder")
	convertCmd.Flags().BoolVar(&flagNoImages, "no-images", false, "Do not extract images (references are left inert)")
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON instead of Markdown")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF instead of Markdown")
	convertCmd.Flags().BoolVar(&flagAll, "all", false, "Convert every supported file under the given directory")

	_ = viper.BindPFlag("no_images", convertCmd.Flags().Lookup("no-images"))
	_ = viper.BindPFlag("output", convertCmd.Flags().Lookup("output"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	cfg := pipeline.Config{NoImages: viper.GetBool("no_images")}
	outBase := viper.GetString("output")

	if flagAll {
		return runAll(args[0], outBase, cfg)
	}
	return convertOne(args[0], outBase, cfg)
}

// runAll discovers supported files under root and converts each. Per-file
// failures are reported and skipped; the batch continues.
func runAll(root, outBase string, cfg pipeline.Config) error {
	inputs, err := scan.Discover(root)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no supported files (.epub, .docx) found under %s", root)
	}

	fmt.Fprintf(os.Stdout, "Found %d files to process\n", len(inputs))

	var errCount int
	for i, input := range inputs {
		fmt.Fprintf(os.Stdout, "[%d/%d] Processing %s\n", i+1, len(inputs), input)

		dest := ""
		if outBase != "" {
			dest = filepath.Join(outBase, stem(input))
		}
		if err := convertOne(input, dest, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", err)
			errCount++
		}
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d files failed\n", errCount, len(inputs))
	}
	return nil
}

// convertOne runs a single file through the pipeline and writes the result.
func convertOne(input, outBase string, cfg pipeline.Config) error {
	doc, err := pipeline.Run(input, cfg)
	if err != nil {
		return err
	}

	dest, err := writeDocument(doc, input, outBase)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Converted %d chapter%s and %d image%s to %s\n",
		len(doc.Chapters), plural(len(doc.Chapters)),
		len(doc.Images), plural(len(doc.Images)), dest)

	for _, note := range doc.Notes {
		fmt.Fprintf(os.Stderr, "  note [%s]: %s\n", note.Stage, note.Detail)
	}
	return nil
}

// writeDocument dispatches on the selected output mode and returns the path
// written.
func writeDocument(doc *core.Document, input, outBase string) (string, error) {
	switch {
	case flagJSON:
		return renderTo(doc, render.NewJSONRenderer(), input, outBase)
	case flagPDF:
		return renderTo(doc, render.NewPDFRenderer(), input, outBase)
	case flagSingle:
		dest := outBase
		if dest == "" {
			dest = stem(input) + ".md"
		}
		return dest, output.WriteSingle(doc, dest)
	default:
		dest := outBase
		if dest == "" {
			dest = stem(input)
		}
		return dest, output.WriteFolder(doc, dest)
	}
}

// renderTo runs an alternative renderer and writes its bytes.
func renderTo(doc *core.Document, r core.Renderer, input, outBase string) (string, error) {
	data, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", r.Extension(), err)
	}

	dest := outBase
	if dest == "" {
		dest = stem(input) + r.Extension()
	}
	if dir := filepath.Dir(dest); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}

// validateFlags checks that at most one output format is chosen.
func validateFlags() error {
	formatCount := 0
	for _, set := range []bool{flagSingle, flagJSON, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("--single, --json, and --pdf are mutually exclusive")
	}
	return nil
}

// stem returns the input filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
