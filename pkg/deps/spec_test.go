package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		token  string
		name   string
		extras []string
		rest   string
		quoted bool
	}{
		{"numpy==1.20", "numpy", nil, "==1.20", false},
		{"'numpy>=1.20'", "numpy", nil, ">=1.20", true},
		{"pymilvus[bulk,milvus-lite]==2.4.0", "pymilvus", []string{"bulk", "milvus-lite"}, "==2.4.0", false},
		{"foo[a, b]~=1.0", "foo", []string{"a", "b"}, "~=1.0", false},
		{"llama_stack_provider_ragas.extra==0.5.1", "llama_stack_provider_ragas.extra", nil, "==0.5.1", false},
		{"aiosqlite", "aiosqlite", nil, "", false},
		{"git+https://github.com/org/repo.git@main", "git", nil, "+https://github.com/org/repo.git@main", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			s := ParseSpec(tt.token)
			assert.Equal(t, tt.name, s.Name)
			assert.Equal(t, tt.extras, s.Extras)
			assert.Equal(t, tt.rest, s.Rest)
			assert.Equal(t, tt.quoted, s.Quoted)
			assert.NotEmpty(t, s.Name)
		})
	}
}

func TestParseSpec_Opaque(t *testing.T) {
	for _, token := range []string{"@scope/pkg", "foo[unterminated==1", "'[x]'"} {
		t.Run(token, func(t *testing.T) {
			s := ParseSpec(token)
			assert.Empty(t, s.Name)
			assert.Equal(t, token, s.String(), "opaque tokens render verbatim")
		})
	}
}

func TestPackageSpec_StringRoundTrip(t *testing.T) {
	for _, token := range []string{
		"numpy==1.20",
		"'numpy>=1.20'",
		"pymilvus[milvus-lite]==2.4.0",
		"torch",
		"foo==1.0; python_version<'3.12'",
	} {
		assert.Equal(t, token, ParseSpec(token).String())
	}
}

func TestPackageSpec_Operator(t *testing.T) {
	tests := map[string]string{
		"a==1":  "==",
		"a>=1":  ">=",
		"a<=1":  "<=",
		"a~=1":  "~=",
		"a!=1":  "!=",
		"a>1":   ">",
		"a<1":   "<",
		"a":     "",
		"a @ x": "",
	}
	for token, want := range tests {
		assert.Equal(t, want, ParseSpec(token).Operator(), token)
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, isIdentifier("extra"))
	assert.True(t, isIdentifier("_x1"))
	assert.False(t, isIdentifier(""))
	assert.False(t, isIdentifier("1x"))
	assert.False(t, isIdentifier("a-b"))
}
