package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosyntax/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("copy is independent", func(t *testing.T) {
		t.Parallel()
		original := config.NewConfig()
		original.Format = config.FormatYAML

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, *original, *clone)

		clone.Diagnostics.HardTabs = false
		assert.True(t, original.Diagnostics.HardTabs)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("defaults serialize", func(t *testing.T) {
		t.Parallel()
		data, err := config.NewConfig().ToYAML()
		require.NoError(t, err)

		out := string(data)
		assert.Contains(t, out, "flavor: gfm")
		assert.Contains(t, out, "detect_languages: true")
		assert.Contains(t, out, "  trailing_whitespace: true")
		assert.Contains(t, out, "  level: default")
		assert.NotContains(t, out, "color")
		assert.NotContains(t, out, "format")
	})

	t.Run("header is prepended", func(t *testing.T) {
		t.Parallel()
		data, err := config.NewConfig().ToYAMLWithHeader("# gosyntax")
		require.NoError(t, err)
		assert.Regexp(t, `^# gosyntax\n\nflavor: gfm\n`, string(data))
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, cfg *config.Config)
		wantErr bool
	}{
		{
			name:  "empty input keeps defaults",
			input: "",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, *config.NewConfig(), *cfg)
			},
		},
		{
			name: "partial override",
			input: `
flavor: commonmark
diagnostics:
  hard_tabs: false
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
				assert.False(t, cfg.Diagnostics.HardTabs)
				assert.True(t, cfg.Diagnostics.TrailingWhitespace)
				assert.True(t, cfg.DetectLanguages)
				assert.Equal(t, "default", cfg.Store.Level)
			},
		},
		{
			name:    "unknown key rejected",
			input:   "flavour: gfm\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			input:   "flavor: [gfm\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := config.FromYAML([]byte(tc.input))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Flavor = config.FlavorCommonMark
	original.Store.Level = "best"

	data, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original.Flavor, parsed.Flavor)
	assert.Equal(t, original.Store, parsed.Store)
	assert.Equal(t, original.Diagnostics, parsed.Diagnostics)
}
