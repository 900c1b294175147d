// Package config loads toolkit configuration from a YAML file and the
// environment. Every key has a default, a file value overrides the default,
// and a REDOC_-prefixed environment variable overrides both (for example
// REDOC_OCR_LANGUAGE overrides ocr.language).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"redoc/tool"
)

// OCR holds recognition defaults forwarded to the OCR processor.
type OCR struct {
	Language string `mapstructure:"language"`
	DPI      int    `mapstructure:"dpi"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the root configuration for the toolkit.
type Config struct {
	TemplateDir string     `mapstructure:"template_dir"`
	Tools       tool.Paths `mapstructure:"tools"`
	OCR         OCR        `mapstructure:"ocr"`
	Log         Log        `mapstructure:"log"`
}

// Load reads configuration from path. An empty path searches for redoc.yaml
// in the working directory and ~/.config/redoc; a missing file there is not
// an error, the defaults apply. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("redoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/redoc")
	}
	v.SetEnvPrefix("REDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults registers every known key so environment overrides bind even
// when the key is absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("template_dir", "")
	v.SetDefault("tools.soffice", "")
	v.SetDefault("tools.ebook_convert", "")
	v.SetDefault("tools.pdftotext", "")
	v.SetDefault("tools.pdftohtml", "")
	v.SetDefault("tools.pdftoppm", "")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.dpi", 150)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
