// Command nomidump scans a source file and emits its token stream as a
// JSON array, one record per token, for tooling that wants machine-
// readable output rather than nomiscan's human-readable listing.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/nomi-lang/nomic/internal/arena"
	"github.com/nomi-lang/nomic/internal/config"
	"github.com/nomi-lang/nomic/internal/diag"
	"github.com/nomi-lang/nomic/internal/intern"
	"github.com/nomi-lang/nomic/internal/scanner"
	"github.com/nomi-lang/nomic/internal/source"
	"github.com/nomi-lang/nomic/internal/token"
)

// tokenRecord is the JSON shape of one dumped token. Index is carried
// through as-is: for literals it is an interner handle the caller can
// resolve against "literal" below; for bracket openers it's already the
// reconciled token distance to the matching closer.
type tokenRecord struct {
	Kind    string `json:"kind"`
	Index   int32  `json:"index,omitempty"`
	Literal any    `json:"literal,omitempty"`
	Offset  uint32 `json:"offset"`
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "nomidump",
		Usage:     "scan a source file and dump its token stream as JSON",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "arena-block-size", Usage: `arena growth chunk, e.g. "64KB"`},
			&cli.BoolFlag{Name: "indent", Usage: "pretty-print the JSON output", Value: true},
		},
		Action: runDump,
	}
}

func runDump(c *cli.Context) error {
	raw := map[string]any{}
	if bs := c.String("arena-block-size"); bs != "" {
		raw["arena_block_size"] = bs
	}
	cfg, err := config.Decode(raw)
	if err != nil {
		return err
	}

	input, path, err := readInput(c.Args().Slice())
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	rec := diag.NewRecorder(log, cfg.CaptureCallStack)
	a := arena.New(cfg.ArenaBlockSize)
	builder := intern.New(a, rec, log)
	reg := source.New(log)
	start := reg.LoadFromBuffer(path, input)

	s := scanner.New(builder)
	s.Scan(input, start)

	records := make([]tokenRecord, 0, len(s.EncodedTokens()))
	for _, info := range s.EncodedTokens() {
		records = append(records, toRecord(info, builder))
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("indent") {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return err
	}

	if rec.HasErrors() {
		return fmt.Errorf("nomidump: %d scan error(s)", len(rec.Records()))
	}
	return nil
}

func readInput(args []string) (data []byte, path string, err error) {
	if len(args) == 0 {
		data, err = io.ReadAll(os.Stdin)
		return data, "<stdin>", err
	}
	data, err = os.ReadFile(args[0])
	return data, args[0], err
}

func toRecord(info token.Info, builder *intern.Builder) tokenRecord {
	r := tokenRecord{Kind: info.Token.String(), Index: info.Index, Offset: info.Loc.Raw()}
	switch info.Token {
	case token.INTEGER:
		r.Literal = builder.Integer(info.Index)
	case token.DOUBLE:
		r.Literal = builder.Double(info.Index)
	case token.IDENTIFIER, token.STRING, token.STRING_INTERPOLATION, token.STRING_INTERPOLATION_END:
		r.Literal = builder.Text(info.Index)
	}
	return r
}
