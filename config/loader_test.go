package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/quick"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestLoader_DefaultsWithoutFile(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	l := NewLoader(nil)
	l.SetStorageDir(dir)

	cfg, err := l.Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenRouter, cfg.LLMProvider)
	assert.Equal(t, 10, cfg.Chart.HeatmapMaxVars)
	assert.Equal(t, 10, cfg.Chart.ClusterInit)
	assert.False(t, cfg.ParseDates)
	assert.Equal(t, dir, cfg.DataCacheDir)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Zero(t, cfg.RequestTimeout())
}

func TestLoader_FileAndEnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"llmProvider": "OpenAI",
		"modelName": "gpt-4o",
		"requestTimeoutSeconds": 30,
		"chart": {"width": 1024, "heatmapMaxVars": 8}
	}`), 0600))
	t.Setenv("EDACHAT_MODELNAME", "gpt-4o-mini")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	l := NewLoader(nil)
	l.SetStorageDir(dir)
	cfg, err := l.Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName)
	assert.Equal(t, "sk-from-env", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 1024, cfg.Chart.Width)
	assert.Equal(t, 600, cfg.Chart.Height)
	assert.Equal(t, 8, cfg.Chart.HeatmapMaxVars)
}

func TestLoader_DotenvInStorageDir(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENROUTER_API_KEY=sk-or-dotenv\n"), 0600))
	// godotenv never overrides a variable that is already set, even to "".
	// t.Setenv in clearProviderEnv restores the original value afterwards.
	require.NoError(t, os.Unsetenv("OPENROUTER_API_KEY"))

	l := NewLoader(nil)
	l.SetStorageDir(dir)
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-dotenv", cfg.APIKey)
}

func TestLoader_ExplicitMissingFile(t *testing.T) {
	l := NewLoader(nil)
	l.SetStorageDir(t.TempDir())
	_, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoader_SaveThenLoad(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	var logged []string
	l := NewLoader(func(s string) { logged = append(logged, s) })
	l.SetStorageDir(dir)

	cfg := Default()
	cfg.ModelName = "claude-sonnet"
	cfg.LLMProvider = ProviderAnthropic
	cfg.Language = "Português"
	require.NoError(t, l.Save(cfg))

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet", loaded.ModelName)
	assert.Equal(t, ProviderAnthropic, loaded.LLMProvider)
	assert.Equal(t, "Português", loaded.Language)
	assert.NotEmpty(t, logged)
}

func TestConfig_ValidateClampsValues(t *testing.T) {
	cfg := Config{RequestTimeoutSeconds: -5, Chart: ChartConfig{Width: 10, HeatmapMaxVars: -1}}
	cfg.Validate()
	assert.Equal(t, 0, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, 10, cfg.Chart.HeatmapMaxVars)
	assert.Equal(t, ProviderOpenRouter, cfg.LLMProvider)
}

// Redaction never leaks the middle of a key and keeps its length.
func TestProperty_RedactedHidesKey(t *testing.T) {
	qc := &quick.Config{
		MaxCount: 200,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		n := r.Intn(40) + 1
		b := make([]byte, n)
		for i := range b {
			b[i] = byte('a' + r.Intn(26))
		}
		key := string(b)
		red := Config{APIKey: key}.Redacted().APIKey
		if len(red) != len(key) {
			return false
		}
		if n > 8 {
			return red[:4] == key[:4] && strings.Trim(red[4:n-4], "*") == ""
		}
		return strings.Trim(red, "*") == ""
	}
	if err := quick.Check(f, qc); err != nil {
		t.Error(err)
	}
}
