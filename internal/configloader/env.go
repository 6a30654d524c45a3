package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/yaklabco/gosyntax/pkg/config"
)

// envVarPrefix is the prefix for all gosyntax environment variables.
const envVarPrefix = "GOSYNTAX_"

// envMapping binds one environment variable to a config field.
type envMapping struct {
	description string
	setString   func(cfg *config.Config, value string)
	setBool     func(cfg *config.Config, value bool)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR": {
		description: "Markdown flavor: commonmark or gfm",
		setString:   func(cfg *config.Config, v string) { cfg.Flavor = config.Flavor(v) },
	},
	"DETECT_LANGUAGES": {
		description: "Guess languages for unlabeled code blocks: true or false",
		setBool:     func(cfg *config.Config, v bool) { cfg.DetectLanguages = v },
	},
	"TRAILING_WHITESPACE": {
		description: "Report trailing whitespace: true or false",
		setBool:     func(cfg *config.Config, v bool) { cfg.Diagnostics.TrailingWhitespace = v },
	},
	"HARD_TABS": {
		description: "Report hard tabs: true or false",
		setBool:     func(cfg *config.Config, v bool) { cfg.Diagnostics.HardTabs = v },
	},
	"STORE_LEVEL": {
		description: "Store compression: fastest, default, better or best",
		setString:   func(cfg *config.Config, v string) { cfg.Store.Level = v },
	},
	"COLOR": {
		description: "Color output: auto, always or never",
		setString:   func(cfg *config.Config, v string) { cfg.Color = v },
	},
	"FORMAT": {
		description: "Tree output format: tree or yaml",
		setString:   func(cfg *config.Config, v string) { cfg.Format = config.OutputFormat(v) },
	},
}

// LoadFromEnv applies GOSYNTAX_* environment overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if mapping.setBool != nil {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
			}
			mapping.setBool(cfg, b)
			continue
		}
		mapping.setString(cfg, value)
	}
	return nil
}

// ListEnvVars returns the supported environment variables, sorted, with
// their descriptions.
func ListEnvVars() [][2]string {
	names := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		names = append(names, suffix)
	}
	sort.Strings(names)

	out := make([][2]string, 0, len(names))
	for _, suffix := range names {
		out = append(out, [2]string{envVarPrefix + suffix, envMappings[suffix].description})
	}
	return out
}
