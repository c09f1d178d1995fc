package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"plain pin unchanged", "numpy==1.20", "numpy==1.20"},
		{"lower bound quoted", "numpy>=1.20", "'numpy>=1.20'"},
		{"upper bound quoted", "numpy<2", "'numpy<2'"},
		{"range quoted once", "'numpy>=1.20,<2'", "'numpy>=1.20,<2'"},
		{"milvus extra added", "pymilvus==2.4.0", "pymilvus[milvus-lite]==2.4.0"},
		{"milvus extra kept", "pymilvus[milvus-lite]==2.4.0", "pymilvus[milvus-lite]==2.4.0"},
		{"milvus extra appended", "pymilvus[bulk]==2.4.0", "pymilvus[bulk,milvus-lite]==2.4.0"},
		{"milvus quoted and patched", "pymilvus>=2.4", "'pymilvus[milvus-lite]>=2.4'"},
		{"milvus bare name", "pymilvus", "pymilvus[milvus-lite]"},
		{"milvus lookalike untouched", "pymilvus-model==0.2", "pymilvus-model==0.2"},
		{"dotted milvus patched", "pymilvus.extra==2.4.0", "pymilvus[extra,milvus-lite]==2.4.0"},
		{"dotted milvus quoted and patched", "pymilvus.bulk>=2.4", "'pymilvus[bulk,milvus-lite]>=2.4'"},
		{"dotted namespace", "llama_stack_provider_ragas.extra==0.5.1", "llama_stack_provider_ragas[extra]==0.5.1"},
		{"dotted namespace quoted", "llama_stack_provider_ragas.remote>=0.5", "'llama_stack_provider_ragas[remote]>=0.5'"},
		{"dotted suffix needs operator", "pkg.extra", "pkg.extra"},
		{"dots in version untouched", "foo==1.2.3", "foo==1.2.3"},
		{"dotted with extras untouched", "pkg.sub[x]==1", "pkg.sub[x]==1"},
		{"dotted non identifier", "pkg.1x==1", "pkg.1x==1"},
		{"only last segment rewritten", "a.b.c==1", "a.b[c]==1"},
		{"url untouched", "git+https://github.com/org/repo.git@main", "git+https://github.com/org/repo.git@main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.token))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	tokens := []string{
		"numpy==1.20",
		"numpy>=1.20",
		"pymilvus==2.4.0",
		"pymilvus>=2.4",
		"pymilvus.extra==2.4.0",
		"pymilvus.bulk>=2.4",
		"llama_stack_provider_ragas.extra==0.5.1",
		"a.b.c==1",
		"foo[a, b]~=1.0",
		"@scope/pkg",
		"torch",
	}
	for _, tok := range tokens {
		once := Normalize(tok)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice", tok)
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"scipy==1.9", "numpy==1.20", "scipy==1.9", "pymilvus==2.4.0", "pymilvus[milvus-lite]==2.4.0"})
	assert.Equal(t, []string{"numpy==1.20", "pymilvus[milvus-lite]==2.4.0", "scipy==1.9"}, got)
}

func TestNormalizeAll_DottedMilvusDeduplicated(t *testing.T) {
	got := NormalizeAll([]string{"pymilvus.bulk==2.4", "pymilvus[bulk,milvus-lite]==2.4"})
	assert.Equal(t, []string{"pymilvus[bulk,milvus-lite]==2.4"}, got)
}

func TestNormalizeAll_CaseNotFolded(t *testing.T) {
	got := NormalizeAll([]string{"NumPy==1.20", "numpy==1.20"})
	assert.Equal(t, []string{"NumPy==1.20", "numpy==1.20"}, got)
}

func TestNewNormalizer_Patches(t *testing.T) {
	n := NewNormalizer([]ExtraPatch{{Package: "ray", Extra: "default"}})
	assert.Equal(t, "ray[default]==2.9", n.Normalize("ray==2.9"))
	assert.Equal(t, "pymilvus==2.4.0", n.Normalize("pymilvus==2.4.0"), "custom patches replace the defaults")

	none := NewNormalizer([]ExtraPatch{})
	assert.Equal(t, "pymilvus==2.4.0", none.Normalize("pymilvus==2.4.0"))
	assert.Equal(t, "'numpy>=1'", none.Normalize("numpy>=1"), "quoting still applies")
}

func TestNormalizer_Directive(t *testing.T) {
	d := Directive{
		Packages: []string{"b==1", "a>=1", "b==1"},
		Flags:    []Flag{{Name: FlagNoDeps}},
	}
	got := NewNormalizer(nil).Directive(d)
	assert.Equal(t, []string{"'a>=1'", "b==1"}, got.Packages)
	assert.Equal(t, d.Flags, got.Flags)
	assert.Equal(t, []string{"b==1", "a>=1", "b==1"}, d.Packages, "input is not modified")
}

func TestRulesDoNotShareExtras(t *testing.T) {
	base := ParseSpec("pymilvus[bulk]==2.4.0")
	patched := ExtraPatch{Package: "pymilvus", Extra: "milvus-lite"}.Rule()(base)
	assert.Equal(t, []string{"bulk"}, base.Extras)
	assert.Equal(t, []string{"bulk", "milvus-lite"}, patched.Extras)
}
