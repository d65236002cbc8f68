package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "http://localhost:8080/orange/api", c.BaseURL)
	assert.Equal(t, 5*time.Second, c.TimeoutDuration())
	assert.Equal(t, "asset", c.Scenario)
	assert.Equal(t, runner.DefaultBaseURL, c.BaseURL)
	assert.Equal(t, runner.DefaultTimeout, c.TimeoutDuration())
	assert.True(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetCheckEnvelope())
	assert.Zero(t, c.GetRate())
	assert.NoError(t, c.Validate())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file yields defaults", func(t *testing.T) {
		c, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".orangeprobe.yml"), []byte(`
baseUrl: http://staging:9000/orange/api
timeout: 2000
checkEnvelope: true
headers:
  X-Trace: probe
`), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://staging:9000/orange/api", c.BaseURL)
		assert.Equal(t, 2*time.Second, c.TimeoutDuration())
		assert.True(t, c.GetCheckEnvelope())
		assert.Equal(t, map[string]string{"X-Trace": "probe"}, c.Headers)
		assert.Equal(t, "console", c.Output, "unset fields keep defaults")
	})

	t.Run("json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "orangeprobe.config.json"),
			[]byte(`{"output": "json", "rate": 2.5}`), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "json", c.Output)
		assert.Equal(t, 2.5, c.GetRate())
	})

	t.Run("yaml wins over json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".orangeprobe.yaml"), []byte("scenario: smoke\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".orangeprobe.json"), []byte(`{"scenario": "asset"}`), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "smoke", c.Scenario)
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timeout": "soon"}`), 0644))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1"}

	merged := base.Merge(&Config{
		BaseURL:       "http://other/api",
		Timeout:       1500,
		Headers:       map[string]string{"B": "2"},
		CheckEnvelope: BoolPtr(true),
	})

	assert.Equal(t, "http://other/api", merged.BaseURL)
	assert.Equal(t, 1500, merged.Timeout)
	assert.Equal(t, "asset", merged.Scenario)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.True(t, merged.GetCheckEnvelope())

	assert.Equal(t, map[string]string{"A": "1"}, base.Headers, "merge leaves the receiver untouched")
	assert.Same(t, base, base.Merge(nil))
}

func TestMerge_Rate(t *testing.T) {
	file := DefaultConfig()
	file.Rate = Float64Ptr(2)

	assert.Equal(t, 2.0, file.Merge(&Config{}).GetRate(), "unset rate keeps the file value")
	assert.Equal(t, 0.0, file.Merge(&Config{Rate: Float64Ptr(0)}).GetRate(), "explicit 0 turns pacing off")
	assert.Equal(t, 5.0, file.Merge(&Config{Rate: Float64Ptr(5)}).GetRate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ftp base url", mutate: func(c *Config) { c.BaseURL = "ftp://host/api" }, wantErr: "BaseURL"},
		{name: "not a url", mutate: func(c *Config) { c.BaseURL = "localhost" }, wantErr: "BaseURL"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -1 }, wantErr: "Timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.Rate = Float64Ptr(-0.5) }, wantErr: "Rate"},
		{name: "unknown output", mutate: func(c *Config) { c.Output = "junit" }, wantErr: "Output"},
		{name: "https is fine", mutate: func(c *Config) { c.BaseURL = "https://orange.example.com/orange/api" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseURL:       "http://ci:8080/orange/api",
		EnvTimeout:       "750",
		EnvRate:          "4",
		EnvCheckEnvelope: "true",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	c, err := fromLookup(lookup)
	require.NoError(t, err)
	assert.Equal(t, "http://ci:8080/orange/api", c.BaseURL)
	assert.Equal(t, 750, c.Timeout)
	assert.Equal(t, 4.0, c.GetRate())

	env[EnvRate] = "0"
	c, err = fromLookup(lookup)
	require.NoError(t, err)
	require.NotNil(t, c.Rate)
	assert.Zero(t, *c.Rate)
	env[EnvRate] = "4"
	assert.True(t, c.GetCheckEnvelope())
	assert.Nil(t, c.NoColor)

	env[EnvTimeout] = "5s"
	_, err = fromLookup(lookup)
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".orangeprobe.yml")
	c := DefaultConfig()
	c.Rate = Float64Ptr(3)

	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, loaded.GetRate())
	assert.Equal(t, c.BaseURL, loaded.BaseURL)
}
