// Package config decodes the front-end's run-time tunables from a plain
// map (flags, a TOML/YAML file already unmarshaled into map[string]any, or
// environment-derived settings) into a typed Config, the way the teacher's
// command trees decode viper-backed settings into typed structs before
// wiring up collaborators.
package config

import (
	"fmt"
	"reflect"

	"github.com/c2h5oh/datasize"
	"github.com/go-viper/mapstructure/v2"
)

// Config collects every tunable the front-end's collaborators accept at
// construction time. Zero values are valid; Decode only ever overrides
// fields present in its input.
type Config struct {
	// ArenaBlockSize is the chunk size internal/arena grows by. Zero selects
	// arena's own default.
	ArenaBlockSize datasize.ByteSize `mapstructure:"arena_block_size"`

	// DebugIteratorChecks is the setting for wordtable.Table's stale-iterator
	// panic (Table.DebugIteratorChecks). Decode only records it; nothing in
	// this module copies it onto a table.
	DebugIteratorChecks bool `mapstructure:"debug_iterator_checks"`

	// CaptureCallStack enables diag.Recorder's per-error call stack capture.
	CaptureCallStack bool `mapstructure:"capture_call_stack"`
}

// Default returns the zero-value Config, spelled out so callers can see
// every tunable defaults to "off"/"library default" without reading Decode.
func Default() Config {
	return Config{}
}

// Decode overlays the keys present in raw onto a Default Config and
// returns the result. Unknown keys are rejected so a typo in a config file
// fails fast rather than silently doing nothing.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
		DecodeHook:       decodeByteSizeHook,
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	return cfg, nil
}

var byteSizeType = reflect.TypeOf(datasize.ByteSize(0))

// decodeByteSizeHook lets "arena_block_size" be spelled as a human string
// ("64KB", "1MB") in addition to a plain integer byte count, matching how
// datasize.ByteSize is conventionally surfaced in config files.
func decodeByteSizeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != byteSizeType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return nil, fmt.Errorf("config: parsing byte size %q: %w", s, err)
	}
	return size, nil
}
