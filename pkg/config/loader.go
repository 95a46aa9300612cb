package config

import (
	_ "embed"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

var log = logging.GetLogger("config")

// rawBytesProvider feeds embedded bytes to koanf.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load returns the merged configuration: embedded defaults overlaid
// with the user file at userConfigPath, when it exists. An empty
// userConfigPath loads defaults only.
func Load(userConfigPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "embedded defaults are invalid")
	}

	if userConfigPath != "" {
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := k.Load(file.Provider(userConfigPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot load config from %s", userConfigPath)
			}
			log.Debug().Str("path", userConfigPath).Msg("user config loaded")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "configuration does not match the expected shape")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded file ships with the binary; failing to parse it
		// is a build defect.
		panic(err)
	}
	return cfg
}

// DefaultsContent returns the embedded defaults file verbatim.
func DefaultsContent() string {
	return string(defaultConfig)
}

func newInvalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrInvalidInput, format, args...)
}
