package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/respexample/internal/config"
	"github.com/mcncl/respexample/internal/errors"
	"github.com/mcncl/respexample/internal/formatter"
	"github.com/mcncl/respexample/internal/logging"
	"github.com/mcncl/respexample/internal/models"
	"github.com/mcncl/respexample/internal/openapi"
	"github.com/mcncl/respexample/internal/parser"
	"github.com/mcncl/respexample/internal/schema"
	"github.com/mcncl/respexample/internal/synthesizer"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to an OpenAPI, Swagger or JSON Schema document. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Schema      string `help:"Definition or component schema to synthesize." short:"s"`
	Operation   string `help:"Operation ID (or \"METHOD /path\") whose response body to synthesize."`
	Status      string `help:"Response status. Defaults to the first 2xx response, then default."`
	MediaType   string `help:"Response media type. Defaults to application/json." name:"media-type"`
	Format      string `help:"Output format: json or yaml." short:"f"`
	Indent      int    `help:"Spaces per indentation level, 0 for compact JSON." default:"-1"`
	ArrayCount  int    `help:"Arrays get this many elements plus one." name:"array-count" default:"-1"`
	Random      bool   `help:"Use seeded random placeholder values instead of fixed ones."`
	Seed        int64  `help:"Seed for --random. Zero uses the current time."`
	MaxDepth    int    `help:"Maximum schema nesting depth." name:"max-depth"`
	Config      string `help:"Path to config file. Defaults to .respexample.yml found in the current or a parent directory." short:"c" type:"path"`
	List        bool   `help:"List the schemas and operations the document provides." short:"l"`
	LogFormat   string `help:"Log format: text or json." name:"log-format"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct schema input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("respexample"),
		kong.Description("Generate example API responses from OpenAPI, Swagger and JSON Schema documents"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if CLI.Version {
		fmt.Printf("respexample version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: respexample --help\n")
		os.Exit(1)
	}
}

// newContext resolves configuration from the config file and flags and
// builds the logger.
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overridesFromCLI())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, errors.NewConfigError("failed to configure logging", err)
	}
	slog.SetDefault(logger)

	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &Context{Debug: CLI.Debug, Config: cfg, Logger: logger}, nil
}

func overridesFromCLI() config.Overrides {
	overrides := config.Overrides{
		Format:     CLI.Format,
		Indent:     CLI.Indent,
		ArrayCount: CLI.ArrayCount,
		Randomize:  CLI.Random,
		Seed:       CLI.Seed,
		MaxDepth:   CLI.MaxDepth,
		LogFormat:  CLI.LogFormat,
	}
	if CLI.Debug {
		overrides.LogLevel = "debug"
	}
	return overrides
}

// run executes the main program logic
func run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	if ctx.Logger == nil {
		ctx.Logger = slog.Default()
	}

	// 1. Read and detect the input document
	doc, err := parseInput()
	if err != nil {
		return err
	}
	ctx.Logger.Debug("parsed input", "kind", doc.Kind, "bytes", len(doc.Data))

	// 2. Listing short-circuits synthesis
	if CLI.List {
		listing, err := listDocument(doc)
		if err != nil {
			return err
		}
		return writeOutput(listing)
	}

	// 3. Resolve the schema to synthesize
	target, err := selectSchema(doc)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("selected schema", "schema", target.Describe())

	// 4. Synthesize the example tree
	tree := newSynthesizer(ctx).Synthesize(target, "")

	// 5. Render and output the result
	format, err := formatter.ParseFormat(ctx.Config.Output.Format)
	if err != nil {
		return errors.NewConfigError("invalid output format", err)
	}
	formatterInst := formatter.NewFormatter(
		formatter.WithFormat(format),
		formatter.WithIndent(ctx.Config.Output.Indent),
		formatter.WithUnknownToken(ctx.Config.Synthesis.UnknownToken),
	)

	return writeOutput(formatterInst.Render(tree))
}

func newSynthesizer(ctx *Context) *synthesizer.Synthesizer {
	cfg := ctx.Config.Synthesis
	opts := []synthesizer.Option{
		synthesizer.WithMaxDepth(cfg.MaxDepth),
		synthesizer.WithDiagnostics(synthesizer.LogSink(ctx.Logger)),
	}
	if cfg.Randomize {
		opts = append(opts, synthesizer.WithRandomPlaceholders(cfg.Seed))
	} else {
		opts = append(opts, synthesizer.WithArrayCount(cfg.ArrayCount))
	}
	return synthesizer.NewSynthesizer(opts...)
}

// selectSchema picks the schema named by the selector flags
func selectSchema(doc models.Document) (*models.SchemaType, error) {
	switch doc.Kind {
	case models.DocumentJSONSchema:
		if CLI.Operation != "" {
			return nil, errors.NewInputError("--operation requires an OpenAPI or Swagger document", errors.ErrNoSchemaSelected)
		}
		schemaDoc, err := schema.ParseBytes(doc.Data)
		if err != nil {
			return nil, err
		}
		if CLI.Schema != "" {
			return schemaDoc.Definition(CLI.Schema)
		}
		return schemaDoc.Root(), nil

	case models.DocumentOpenAPI3, models.DocumentSwagger2:
		apiDoc, err := openapi.Load(doc)
		if err != nil {
			return nil, err
		}
		switch {
		case CLI.Operation != "":
			return apiDoc.ResponseSchema(CLI.Operation, CLI.Status, CLI.MediaType)
		case CLI.Schema != "":
			return apiDoc.ComponentSchema(CLI.Schema)
		default:
			return nil, errors.NewInputError(
				"select a component with --schema or a response with --operation (see --list)",
				errors.ErrNoSchemaSelected,
			)
		}

	default:
		return nil, errors.NewParsingError("unsupported document", errors.ErrUnknownDocument)
	}
}

// listDocument describes the selectable schemas and operations
func listDocument(doc models.Document) (string, error) {
	var sb strings.Builder

	switch doc.Kind {
	case models.DocumentJSONSchema:
		schemaDoc, err := schema.ParseBytes(doc.Data)
		if err != nil {
			return "", err
		}
		sb.WriteString("Definitions:\n")
		writeNames(&sb, schemaDoc.Definitions())

	case models.DocumentOpenAPI3, models.DocumentSwagger2:
		apiDoc, err := openapi.Load(doc)
		if err != nil {
			return "", err
		}
		sb.WriteString("Schemas:\n")
		writeNames(&sb, apiDoc.Schemas())
		sb.WriteString("Operations:\n")
		ops := apiDoc.Operations()
		if len(ops) == 0 {
			sb.WriteString("  (none)\n")
		}
		for _, op := range ops {
			fmt.Fprintf(&sb, "  %s (%s %s) responses: %s\n", op.ID, op.Method, op.Path, strings.Join(op.Statuses, ", "))
		}
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func writeNames(sb *strings.Builder, names []string) {
	if len(names) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for _, name := range names {
		sb.WriteString("  " + name + "\n")
	}
}

// parseInput reads a schema document from file or stdin
func parseInput() (models.Document, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(data) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(data))
}

// writeOutput writes text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(text+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Example written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Println(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste a
// schema document and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Document, error) {
	fmt.Fprintln(os.Stderr, "respexample Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON Schema below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	data := builder.String()
	if strings.TrimSpace(data) == "" {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing schema...")
	return parser.ParseString(data)
}
