// Package config loads ls-epoch settings from the config file, LS_EPOCH_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the working and home directories.
	FileName = ".ls-epoch.toml"
	// EnvPrefix prefixes environment overrides, e.g. LS_EPOCH_DATA_FILE.
	EnvPrefix = "LS_EPOCH"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all runtime settings.
type Config struct {
	DataFile      string        `mapstructure:"data_file" validate:"required_if=Watch true"`
	LogLevel      string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	ListenAddr    string        `mapstructure:"listen_addr" validate:"required,hostname_port"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce" validate:"min=10ms,max=1m"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataFile:      "",
		LogLevel:      "info",
		ListenAddr:    "127.0.0.1:8480",
		Watch:         false,
		WatchDebounce: 250 * time.Millisecond,
	}
}

// SetDefaults registers Default with v so unset keys fall back to it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch_debounce", d.WatchDebounce)
}

// Load reads and validates configuration from v, applying defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	vOnce  sync.Once
	valid  *validator.Validate
	transl ut.Translator
)

func validatorInstance() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		transl, _ = uni.GetTranslator("en")

		valid = validator.New(validator.WithRequiredStructEnabled())
		// report config keys, not Go field names
		valid.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if tag := fld.Tag.Get("mapstructure"); tag != "" {
				return tag
			}
			return fld.Name
		})
		_ = en_translations.RegisterDefaultTranslations(valid, transl)
	})
	return valid, transl
}

// Validate checks cfg and describes every bad key in one error.
func Validate(cfg Config) error {
	v, trans := validatorInstance()
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// fileConfig is the on-disk shape; durations are written as strings.
type fileConfig struct {
	DataFile      string `toml:"data_file" comment:"Earth orientation CSV (Celestrak EOP-All.csv format)"`
	LogLevel      string `toml:"log_level" comment:"debug, info, warn or error"`
	ListenAddr    string `toml:"listen_addr" comment:"address for ls-epoch serve"`
	Watch         bool   `toml:"watch" comment:"reload data_file when it changes"`
	WatchDebounce string `toml:"watch_debounce"`
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(fileConfig{
		DataFile:      cfg.DataFile,
		LogLevel:      cfg.LogLevel,
		ListenAddr:    cfg.ListenAddr,
		Watch:         cfg.Watch,
		WatchDebounce: cfg.WatchDebounce.String(),
	})
}
