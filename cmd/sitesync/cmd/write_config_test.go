package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteConfigCmd(t *testing.T) {
	viper.SetConfigType("yaml")
	configData := []byte(`
logging:
    colors: true
    format: text
    level: INFO
    output: stdout
    timeformat: "15:04:05"
publish:
    root: public
    prefix: docs
    bucket: altinity-docs
    cachecontrol: max-age=300
    exclude:
        - "**/*.map"
    concurrency: 8
storage:
    backend: s3
    region: eu-central-1
    accesskey: AKIDEXAMPLE
    secretkey: wJalrXUtnFEMI
telemetry:
    enabled: false
`)
	require.NoError(t, viper.ReadConfig(bytes.NewBuffer(configData)))

	var stdout bytes.Buffer

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)

	t.Run("Stdout", func(t *testing.T) {
		rootCmd.SetArgs([]string{"writeConfig"})
		assert.NoError(t, rootCmd.Execute())

		assert.Contains(t, stdout.String(), "bucket: altinity-docs")
		assert.Contains(t, stdout.String(), "prefix: docs")
		assert.NotContains(t, stdout.String(), "wJalrXUtnFEMI")

		m := make(map[string]interface{})
		assert.NoError(t, yaml.Unmarshal(stdout.Bytes(), &m))

		storage, ok := m["storage"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "REDACTED", storage["secretkey"])
	})

	t.Run("File", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "config.yaml")

		rootCmd.SetArgs([]string{"writeConfig", "-o", name})
		assert.NoError(t, rootCmd.Execute())

		b, err := os.ReadFile(name)
		require.NoError(t, err)

		assert.Contains(t, string(b), "prefix: docs")
		assert.NotContains(t, string(b), "wJalrXUtnFEMI")

		m := make(map[string]interface{})
		assert.NoError(t, yaml.Unmarshal(b, &m))
	})

	t.Run("Existing file is kept", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(name, []byte("keep: me\n"), 0o644))

		rootCmd.SetArgs([]string{"writeConfig", "-o", name})
		assert.Error(t, rootCmd.Execute())

		b, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "keep: me\n", string(b))
	})
}

func TestSetNested(t *testing.T) {
	m := map[string]interface{}{
		"storage": map[string]interface{}{"secretkey": "x"},
		"flat":    "y",
	}

	setNested(m, "storage.secretkey", "REDACTED")
	setNested(m, "flat", "z")
	setNested(m, "missing.key", "ignored")

	assert.Equal(t, "REDACTED", m["storage"].(map[string]interface{})["secretkey"])
	assert.Equal(t, "z", m["flat"])
	assert.NotContains(t, m, "missing")
}
