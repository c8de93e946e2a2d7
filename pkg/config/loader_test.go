package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpal/promptpal-go/pkg/config"
)

type testEnvConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"promptpal"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"15s"`
	Debug   bool          `env:"CONFIG_TEST_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	config.Reset()

	var cfg testEnvConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "promptpal", cfg.Name)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.Reset()
	t.Setenv("CONFIG_TEST_NAME", "custom")
	t.Setenv("CONFIG_TEST_TIMEOUT", "3s")

	var cfg testEnvConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.Reset()
	t.Setenv("CONFIG_TEST_NAME", "first")

	var first testEnvConfig
	require.NoError(t, config.Load(&first))

	// Environment changes after the first load are not observed.
	t.Setenv("CONFIG_TEST_NAME", "second")

	var again testEnvConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Name)
}

func TestLoad_NilPointer(t *testing.T) {
	config.Reset()

	err := config.Load[testEnvConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

type testProfile struct {
	APIURL  string `yaml:"api_url"`
	Account string `yaml:"account"`
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	saved := testProfile{APIURL: "https://promptpal.app/api", Account: "a@b.com"}
	require.NoError(t, config.SaveProfile(path, &saved))

	var loaded testProfile
	require.NoError(t, config.LoadProfile(path, &loaded))
	assert.Equal(t, saved, loaded)
}

func TestLoadProfile_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	loaded := testProfile{APIURL: "keep"}
	require.NoError(t, config.LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"), &loaded))
	assert.Equal(t, "keep", loaded.APIURL)
}
