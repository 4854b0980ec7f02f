package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/TheGhostHuCodes/omiros/pkg/brew"
	"github.com/TheGhostHuCodes/omiros/pkg/dotfiles"
	"github.com/TheGhostHuCodes/omiros/pkg/errors"
	"github.com/TheGhostHuCodes/omiros/pkg/macos"
	"github.com/TheGhostHuCodes/omiros/pkg/mas"
	"github.com/TheGhostHuCodes/omiros/pkg/vscode"
)

// DefaultFileName is the expected name of the system configuration file.
const DefaultFileName = "system.toml"

// Config is the whole desired-state declaration. Every section is
// optional; a nil section means that resource kind is skipped.
type Config struct {
	Brew     *brew.Config     `koanf:"brew"`
	Mas      *mas.Config      `koanf:"mas"`
	Dotfiles *dotfiles.Config `koanf:"dotfiles"`
	Vscode   *vscode.Config   `koanf:"vscode"`
	Macos    *macos.Config    `koanf:"macos"`
}

// Load reads the configuration file at path and applies OMIROS_
// environment variable overrides on top.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
	}

	if err := k.Load(env.Provider("OMIROS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "OMIROS_")), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				dotfileEntryHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config from %s", path)
	}

	return &cfg, nil
}

// dotfileEntryHookFunc decodes the two dotfile entry forms. A bare
// string declares an implicit entry whose link mirrors the source path
// under home; an original/link table passes through to the regular
// struct decoding.
func dotfileEntryHookFunc() mapstructure.DecodeHookFunc {
	entryType := reflect.TypeOf(dotfiles.Entry{})
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != entryType {
			return data, nil
		}
		if s, ok := data.(string); ok {
			return dotfiles.Entry{Original: s, Link: filepath.Join("~", s)}, nil
		}
		return data, nil
	}
}
