package distro

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

const testRunYAML = `
version: 2
image_name: rh
providers:
  inference:
  - provider_id: ${env.VLLM_URL:+vllm}
    provider_type: remote::vllm
    config:
      url: ${env.VLLM_URL:=}
  - provider_id: sentence-transformers
    provider_type: inline::sentence-transformers
  vector_io:
  - provider_id: milvus
    provider_type: inline::milvus
  - not a mapping
  - provider_id: 42
    provider_type: remote::pgvector
  - provider_id: missing-type
  eval: {}
`

const testBuildYAML = `
distribution_spec:
  description: test
  providers:
    eval:
    - provider_type: remote::trustyai_lmeval
      module: llama_stack_provider_lmeval==0.2.4
    - provider_type: inline::trustyai_ragas
      module: llama_stack_provider_ragas[inline]
    inference:
    - provider_type: remote::vllm
image_type: container
`

func TestLoadRunConfig(t *testing.T) {
	cfg, err := LoadRunConfig(writeFile(t, "run.yaml", testRunYAML))
	require.NoError(t, err)

	require.Len(t, cfg.APIs, 3)
	assert.Equal(t, "inference", cfg.APIs[0].Name)
	assert.Equal(t, []Provider{
		{ID: "${env.VLLM_URL:+vllm}", Type: "remote::vllm"},
		{ID: "sentence-transformers", Type: "inline::sentence-transformers"},
	}, cfg.APIs[0].Providers)

	assert.Equal(t, "vector_io", cfg.APIs[1].Name)
	assert.Equal(t, []Provider{
		{ID: "milvus", Type: "inline::milvus"},
		{ID: "42", Type: "remote::pgvector"},
	}, cfg.APIs[1].Providers)

	assert.Equal(t, "eval", cfg.APIs[2].Name)
	assert.Empty(t, cfg.APIs[2].Providers)
}

func TestLoadRunConfig_NoProviders(t *testing.T) {
	cfg, err := LoadRunConfig(writeFile(t, "run.yaml", "version: 2\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.APIs)
}

func TestLoadRunConfig_Errors(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "run.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = LoadRunConfig(writeFile(t, "run.yaml", "providers: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestBuildConfigExternalProviders(t *testing.T) {
	cfg, err := LoadBuildConfig(writeFile(t, "build.yaml", testBuildYAML))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"remote::trustyai_lmeval": "Yes (version 0.2.4)",
		"inline::trustyai_ragas":  "Yes",
	}, cfg.ExternalProviders())
}
