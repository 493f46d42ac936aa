package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	lex := Default()
	require.NoError(t, lex.Validate())

	assert.Len(t, lex.Symbols, 30)
	assert.Len(t, lex.Emotions, 10)
	assert.Equal(t, "eau", lex.Symbols[0].Key)
	assert.Equal(t, "joie", lex.Emotions[0].Name)

	meaning, ok := lex.Meaning("maison")
	assert.True(t, ok)
	assert.Contains(t, meaning, "sécurité")

	_, ok = lex.Meaning("papillon")
	assert.False(t, ok, "papillon is referenced by themes only")
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a.Symbols[0].Key = "changed"

	b := Default()
	assert.Equal(t, "eau", b.Symbols[0].Key)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := `
symbols:
  - key: " Lune "
    meaning: Le féminin et les cycles
    triggers: [LUNAIRE]
emotions:
  - name: Joie
    triggers: [joie, Heureux]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := Load(path)
	require.NoError(t, err)
	require.Len(t, lex.Symbols, 1)
	assert.Equal(t, "lune", lex.Symbols[0].Key)
	assert.Equal(t, []string{"lunaire"}, lex.Symbols[0].Triggers)
	assert.Equal(t, "joie", lex.Emotions[0].Name)
	assert.Equal(t, []string{"joie", "heureux"}, lex.Emotions[0].Triggers)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := `
symbols:
  - key: eau
    meaning: a
  - key: EAU
    meaning: b
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateEmpty(t *testing.T) {
	var lex Lexicon
	assert.ErrorIs(t, lex.Validate(), ErrEmptyLexicon)
}
