package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/errors"
)

func TestLintInstruction(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"single line", "RUN uv pip install --no-deps foo==1", false},
		{"continuation lines", "RUN uv pip install \\\n    numpy==1.20 \\\n    'scipy>=1.9'", false},
		{"extras", "RUN uv pip install pymilvus[milvus-lite]==2.4.0", false},
		{"git url", "RUN uv pip install --no-cache --no-deps git+https://github.com/o/llama-stack.git@v0.4.0+rhai0", false},

		{"unquoted comparison", "RUN uv pip install numpy>=1.20", true},
		{"unquoted upper bound", "RUN uv pip install numpy<2", true},
		{"command list", "RUN uv pip install a; rm -rf /", true},
		{"and list", "RUN uv pip install a && echo hi", true},
		{"pipe", "RUN uv pip install a | tee log", true},
		{"command substitution", "RUN uv pip install $(cat reqs)", true},
		{"unbalanced quote", "RUN uv pip install 'a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LintInstruction(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidRecipe))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLint_AssembledBody(t *testing.T) {
	d, _, err := deps.ParseLine("numpy>=1.20 'scipy<2' torch==2.0")
	require.NoError(t, err)

	body := deps.Assemble([]deps.Directive{deps.NewNormalizer(nil).Directive(d)}, deps.Options{
		Pinned: []string{"'pyarrow>=21.0.0'"},
	})
	assert.NoError(t, Lint(body), "normalized output must be shell safe")

	raw := deps.Body{{Text: "RUN uv pip install \\\n    numpy>=1.20"}}
	err = Lint(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction 1")
}
