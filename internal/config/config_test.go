package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regjson/pkg/export"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("regjson", pflag.ContinueOnError)
	fs.StringP(KeyRegistry, "r", "", "")
	fs.StringP(KeyOutput, "o", "", "")
	fs.BoolP(KeyWatch, "w", false, "")
	fs.Duration(KeyInterval, time.Second, "")
	fs.String(KeyFormat, "json", "")
	fs.String(KeyFromReg, "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.Watch)
	assert.Empty(t, cfg.File)
}

func TestLoad_Flags(t *testing.T) {
	flags := newFlags(t, "-r", `HKCU\Software`, "-o", "out.json", "--watch", "--interval", "250ms", "--format", "yaml")
	cfg, err := Load(afero.NewMemMapFs(), flags, "")
	require.NoError(t, err)

	assert.Equal(t, `HKCU\Software`, cfg.RegistryPath)
	assert.Equal(t, "out.json", cfg.OutputPath)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, export.FormatYAML, cfg.EncodeOptions().Format)
}

func TestLoad_EnvAndFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/regjson.yaml", []byte(`
registry: HKEY_LOCAL_MACHINE\System
output: from-file.json
interval: 5s
from-reg: /data/export.reg
`), 0o644))
	t.Setenv("REGJSON_OUTPUT", "from-env.json")

	flags := newFlags(t, "--format", "yaml")
	cfg, err := Load(fs, flags, "/etc/regjson.yaml")
	require.NoError(t, err)

	assert.Equal(t, `HKEY_LOCAL_MACHINE\System`, cfg.RegistryPath)
	assert.Equal(t, "from-env.json", cfg.OutputPath, "env beats file")
	assert.Equal(t, 5*time.Second, cfg.Interval, "file beats flag default")
	assert.Equal(t, "/data/export.reg", cfg.FromReg)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "/etc/regjson.yaml", cfg.File)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("REGJSON_OUTPUT", "from-env.json")
	t.Setenv("REGJSON_FROM_REG", "env.reg")
	cfg, err := Load(afero.NewMemMapFs(), newFlags(t, "-o", "flag.json"), "")
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.OutputPath)
	assert.Equal(t, "env.reg", cfg.FromReg)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(wd, "regjson.yaml"), []byte("watch: true\n"), 0o644))

	cfg, err := Load(fs, nil, "")
	require.NoError(t, err)
	assert.True(t, cfg.Watch)
	assert.NotEmpty(t, cfg.File)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), nil, "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope.yaml")
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("registry: [unclosed\n"), 0o644))
	_, err := Load(fs, nil, "/bad.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.RegistryPath = `HKCU\Software`
	valid.OutputPath = "out.json"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		errText string
	}{
		{"valid", func(*Config) {}, nil, ""},
		{"missing registry", func(c *Config) { c.RegistryPath = "" }, ErrMissingRegistry, ""},
		{"blank registry", func(c *Config) { c.RegistryPath = "  " }, ErrMissingRegistry, ""},
		{"registry checked before output", func(c *Config) { c.RegistryPath = ""; c.OutputPath = "" }, ErrMissingRegistry, ""},
		{"missing output", func(c *Config) { c.OutputPath = "" }, ErrMissingOutput, ""},
		{"bad format", func(c *Config) { c.Format = "xml" }, nil, "unknown output format"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, nil, "interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestMissingMessages(t *testing.T) {
	assert.Equal(t, "Please specify the registry path using the -r option.", ErrMissingRegistry.Error())
	assert.Equal(t, "Please specify the output file path using the -o option.", ErrMissingOutput.Error())
}
