// Command nomiscan scans a single source file (or stdin) and prints its
// token stream, one token per line, for interactive inspection.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nomi-lang/nomic/internal/arena"
	"github.com/nomi-lang/nomic/internal/config"
	"github.com/nomi-lang/nomic/internal/diag"
	"github.com/nomi-lang/nomic/internal/intern"
	"github.com/nomi-lang/nomic/internal/scanner"
	"github.com/nomi-lang/nomic/internal/source"
	"github.com/nomi-lang/nomic/internal/token"
)

var (
	blockSizeFlag string
	verboseFlag   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nomiscan [file]",
		Short: "Scan a source file and print its token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	cmd.Flags().StringVar(&blockSizeFlag, "arena-block-size", "", `arena growth chunk, e.g. "64KB" (default: library default)`)
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log scanner diagnostics to stderr")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	raw := map[string]any{}
	if blockSizeFlag != "" {
		raw["arena_block_size"] = blockSizeFlag
	}
	cfg, err := config.Decode(raw)
	if err != nil {
		return err
	}

	input, path, err := readInput(args)
	if err != nil {
		return err
	}

	log := logrus.New()
	if !verboseFlag {
		log.SetOutput(io.Discard)
	}

	rec := diag.NewRecorder(log, cfg.CaptureCallStack)
	a := arena.New(cfg.ArenaBlockSize)
	builder := intern.New(a, rec, log)
	reg := source.New(log)

	start := reg.LoadFromBuffer(path, input)

	s := scanner.New(builder)
	s.Scan(input, start)

	for _, info := range s.EncodedTokens() {
		fmt.Fprintln(cmd.OutOrStdout(), formatToken(info, builder))
	}

	if rec.HasErrors() {
		for _, r := range rec.Records() {
			fmt.Fprintln(cmd.ErrOrStderr(), r.Error())
		}
		return fmt.Errorf("nomiscan: %d error(s)", len(rec.Records()))
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

func formatToken(info token.Info, builder *intern.Builder) string {
	switch info.Token {
	case token.INTEGER:
		return fmt.Sprintf("%-24s %d", info.Token, builder.Integer(info.Index))
	case token.DOUBLE:
		return fmt.Sprintf("%-24s %g", info.Token, builder.Double(info.Index))
	case token.IDENTIFIER, token.STRING, token.STRING_INTERPOLATION, token.STRING_INTERPOLATION_END:
		return fmt.Sprintf("%-24s %q", info.Token, builder.Text(info.Index))
	default:
		return fmt.Sprintf("%-24s", info.Token)
	}
}
