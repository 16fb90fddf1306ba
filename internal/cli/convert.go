package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gemrst/rst2gem/internal/configloader"
	"github.com/gemrst/rst2gem/internal/logging"
	"github.com/gemrst/rst2gem/internal/ui/pretty"
	"github.com/gemrst/rst2gem/pkg/config"
	"github.com/gemrst/rst2gem/pkg/fsutil"
	"github.com/gemrst/rst2gem/pkg/parser/rst"
	"github.com/gemrst/rst2gem/pkg/rstree"
	"github.com/gemrst/rst2gem/pkg/translate"
)

// stdioPath selects stdin or stdout in place of a file argument.
const stdioPath = "-"

type convertFlags struct {
	printXML       bool
	detectLanguage bool
	rawFormats     []string
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert one reStructuredText document to Gemtext",
		Long: `Convert a reStructuredText document to Gemtext.

Use "-" as the input to read from stdin, or as the output to write to
stdout. File output is written atomically; on failure the existing output
file is left untouched.

Parser diagnostics (unknown directives, malformed tables) are printed to
stderr and never embedded in the output document.

Examples:
  rst2gem convert doc.rst doc.gmi      Convert a file
  rst2gem convert doc.rst -            Convert to stdout
  rst2gem convert - doc.gmi < doc.rst  Convert from stdin
  rst2gem convert --print-xml doc.rst -  Dump the parsed tree instead`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.printXML, "print-xml", false,
		"print the parsed document tree as pseudo-XML instead of converting")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"detect the language of unlabeled literal blocks")
	cmd.Flags().StringSliceVar(&flags.rawFormats, "raw-format", nil,
		"raw block formats to pass through (default gemtext, gemini)")

	return cmd
}

func runConvert(cmd *cobra.Command, input, output string, flags *convertFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, cmd, flags)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	content, source, err := readInput(ctx, input)
	if err != nil {
		return withExitCode(ExitIOError, err)
	}
	logger := logging.ForDocument(ctx, source)
	logger.Debug("input read", logging.FieldBytes, len(content))

	parser := rst.New()

	if flags.printXML {
		doc, err := parser.Parse(ctx, source, content)
		if err != nil {
			return err
		}
		return writeOutput(ctx, output, []byte(rstree.XML(doc.Root)))
	}

	converter := translate.NewConverter(parser, cfg)
	result, err := converter.Convert(ctx, source, content)
	if err != nil {
		return withExitCode(ExitConvertError, err)
	}

	styles := pretty.NewStylesFor(string(cfg.Color), cmd.ErrOrStderr())
	if len(result.Diagnostics) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatDiagnostics(result.Diagnostics))
	}

	if err := writeOutput(ctx, output, []byte(result.Output)); err != nil {
		return withExitCode(ExitIOError, err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), styles.FormatSummary(source, output, len(result.Diagnostics)))
	return nil
}

// loadConfig resolves the effective configuration, folding the convert
// flags in as the highest-precedence layer.
func loadConfig(ctx context.Context, cmd *cobra.Command, flags *convertFlags) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("get color flag: %w", err)
	}

	cliCfg := &config.Config{
		DetectLanguage: flags.detectLanguage,
		RawFormats:     flags.rawFormats,
	}
	if cmd.Flags().Changed("color") {
		cliCfg.Color = config.ColorMode(colorMode)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// readInput reads the conversion source, from stdin when input is "-".
func readInput(ctx context.Context, input string) (content []byte, source string, err error) {
	if input == stdioPath {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return content, "<stdin>", nil
	}

	content, _, err = fsutil.ReadFile(ctx, input)
	if err != nil {
		return nil, "", err
	}
	return content, input, nil
}

// writeOutput writes the converted document, to stdout when output is "-".
// File output is atomic.
func writeOutput(ctx context.Context, output string, content []byte) error {
	if output == stdioPath {
		if _, err := os.Stdout.Write(content); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	return fsutil.WriteAtomic(ctx, output, content, 0)
}

