// Command sekai-core is the translation tooling text engine.
// By default it serves the line-oriented JSON protocol on stdin/stdout;
// subcommands expose the same operations for one-shot CLI use.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sekai-tl/sekai-core/core/chardet"
	"github.com/sekai-tl/sekai-core/core/entry"
	"github.com/sekai-tl/sekai-core/core/parser"
	"github.com/sekai-tl/sekai-core/core/qa"
	"github.com/sekai-tl/sekai-core/core/rebuild"
	"github.com/sekai-tl/sekai-core/internal/config"
	"github.com/sekai-tl/sekai-core/internal/fileutil"
	"github.com/sekai-tl/sekai-core/internal/logging"
	"github.com/sekai-tl/sekai-core/internal/protocol"
)

const version = "0.4.0"

// CLI defines the command-line interface for sekai-core.
var CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"TOML config file path" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug|info|warn|error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (text|json)" default:"text"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the JSON line protocol on stdin/stdout"`
	Detect  DetectCmd  `cmd:"" help:"Detect the byte encoding of a file"`
	Parse   ParseCmd   `cmd:"" help:"Parse a script file into typed entries"`
	Rebuild RebuildCmd `cmd:"" help:"Rebuild text from an entries JSON file"`
	QA      QACmd      `cmd:"" help:"Run QA checks over an entries JSON file"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// setup loads the config file and initializes logging and the detector.
// Flags win over the config file for logging.
func setup() (*chardet.Detector, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}

	level, format := CLI.LogLevel, CLI.LogFormat
	if cfg.Log.Level != "" {
		level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		format = cfg.Log.Format
	}
	logging.InitLogger(logging.ParseLevel(level), logging.ParseFormat(format))

	return chardet.NewDetectorWeights(cfg.Detector.FamilyWeights()), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func loadEntries(path string) ([]entry.CoreEntry, error) {
	data, err := fileutil.ReadInput(path)
	if err != nil {
		return nil, err
	}
	// Accept both a bare array and the parse_text payload shape.
	var wrapped struct {
		Entries []entry.CoreEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Entries != nil {
		return wrapped.Entries, nil
	}
	var entries []entry.CoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing entries from %s: %w", path, err)
	}
	return entries, nil
}

// ServeCmd runs the protocol loop.
type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	detector, err := setup()
	if err != nil {
		return err
	}
	logging.Info("serving protocol", "version", version)
	return protocol.Serve(context.Background(), os.Stdin, os.Stdout, protocol.NewHandler(detector))
}

// DetectCmd detects the byte encoding of a file.
type DetectCmd struct {
	Path string `arg:"" help:"File to inspect (.xz accepted)" type:"path"`
}

func (c *DetectCmd) Run() error {
	detector, err := setup()
	if err != nil {
		return err
	}
	data, err := fileutil.ReadInput(c.Path)
	if err != nil {
		return err
	}
	return printJSON(detector.Detect(data))
}

// ParseCmd decodes a script file and prints its entry sequence.
type ParseCmd struct {
	Path     string `arg:"" help:"Script file to parse (.xz accepted)" type:"path"`
	Encoding string `name:"encoding" short:"e" help:"Decode with this encoding instead of detecting"`
}

func (c *ParseCmd) Run() error {
	detector, err := setup()
	if err != nil {
		return err
	}
	data, err := fileutil.ReadInput(c.Path)
	if err != nil {
		return err
	}

	enc := c.Encoding
	if enc == "" {
		result := detector.Detect(data)
		enc = result.Best
		logging.Info("detected encoding", "path", c.Path, "encoding", enc, "confidence", result.Confidence)
	}
	text, err := chardet.Decode(enc, data)
	if err != nil {
		return err
	}

	entries, err := parser.Segment(text)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []entry.CoreEntry{}
	}
	return printJSON(map[string]any{"entries": entries})
}

// RebuildCmd rebuilds text from an entries JSON file.
type RebuildCmd struct {
	Path string `arg:"" help:"Entries JSON file (bare array or parse_text payload)" type:"path"`
}

func (c *RebuildCmd) Run() error {
	if _, err := setup(); err != nil {
		return err
	}
	entries, err := loadEntries(c.Path)
	if err != nil {
		return err
	}
	text, err := rebuild.Rebuild(entries)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(text)
	return err
}

// QACmd checks an entries JSON file for editing mistakes.
type QACmd struct {
	Path string `arg:"" help:"Entries JSON file" type:"path"`
}

func (c *QACmd) Run() error {
	if _, err := setup(); err != nil {
		return err
	}
	entries, err := loadEntries(c.Path)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"issues": qa.Run(entries)})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("sekai-core %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sekai-core"),
		kong.Description("Text engine for translation tooling: encoding detection and reversible script segmentation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
