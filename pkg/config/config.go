// Package config defines configuration types for gosyntax.
// These types are plain data; discovery and merging live in the loader.
package config

// Flavor specifies the Markdown flavor used by the parser.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat controls how trees are printed.
type OutputFormat string

const (
	FormatTree OutputFormat = "tree"
	FormatYAML OutputFormat = "yaml"
)

// Color modes accepted by the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DiagnosticsConfig toggles the trivia diagnostics reported while parsing.
type DiagnosticsConfig struct {
	TrailingWhitespace bool `yaml:"trailing_whitespace"`
	HardTabs           bool `yaml:"hard_tabs"`
}

// StoreConfig controls compressed tree stores.
type StoreConfig struct {
	// Level is one of fastest, default, better, best.
	Level string `yaml:"level"`
}

// Config is the root configuration structure.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// DetectLanguages guesses a language for fenced code blocks without one.
	DetectLanguages bool `yaml:"detect_languages"`

	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`

	Store StoreConfig `yaml:"store"`

	// CLI-level options (not persisted to config files).

	// Color is auto, always or never.
	Color string `yaml:"-"`

	// Format selects tree or yaml output.
	Format OutputFormat `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:          FlavorGFM,
		DetectLanguages: true,
		Diagnostics: DiagnosticsConfig{
			TrailingWhitespace: true,
			HardTabs:           true,
		},
		Store: StoreConfig{
			Level: "default",
		},
		Color:  ColorAuto,
		Format: FormatTree,
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
