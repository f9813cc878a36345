package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jotdown/pkg/validate"
)

func TestIndexToLetters(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:   "a",
		1:   "b",
		25:  "z",
		26:  "aa",
		27:  "ab",
		51:  "az",
		52:  "ba",
		701: "zz",
		702: "aaa",
		-1:  "",
	}
	for index, want := range tests {
		assert.Equal(t, want, validate.IndexToLetters(index), "index %d", index)
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	v := validate.New()
	require.NoError(t, v.ValidateID("intro"))

	tests := []struct {
		name string
		id   string
		kind error
	}{
		{name: "blank", id: "", kind: validate.ErrBlank},
		{name: "whitespace", id: "two words", kind: validate.ErrWhitespace},
		{name: "tab", id: "a\tb", kind: validate.ErrWhitespace},
		{name: "duplicate", id: "intro", kind: validate.ErrDuplicateID},
	}
	for _, tt := range tests {
		err := v.ValidateID(tt.id)
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, tt.kind, tt.name)
	}

	v.Reset()
	assert.NoError(t, v.ValidateID("intro"))
}

func TestCitations(t *testing.T) {
	t.Parallel()

	v := validate.New()

	_, err := v.CitationDefinition("smith")
	assert.ErrorIs(t, err, validate.ErrDefinedBeforeUse)

	for _, want := range []string{"a", "b", "c"} {
		label, err := v.CitationKey("smith")
		require.NoError(t, err)
		assert.Equal(t, want, label)
	}

	refs, err := v.CitationDefinition("smith")
	require.NoError(t, err)
	assert.Equal(t, 3, refs)

	_, err = v.CitationDefinition("smith")
	assert.ErrorIs(t, err, validate.ErrDuplicateDefinition)

	_, err = v.CitationKey("")
	assert.ErrorIs(t, err, validate.ErrBlank)
}

func TestFootnotes(t *testing.T) {
	t.Parallel()

	v := validate.New()

	_, err := v.FootnoteDefinition("1")
	assert.ErrorIs(t, err, validate.ErrDefinedBeforeUse)

	label, err := v.FootnoteKey("1")
	require.NoError(t, err)
	assert.Equal(t, "1", label)
	label, err = v.FootnoteKey("1")
	require.NoError(t, err)
	assert.Equal(t, "2", label)

	refs, err := v.FootnoteDefinition("1")
	require.NoError(t, err)
	assert.Equal(t, 2, refs)

	_, err = v.FootnoteDefinition("1")
	assert.ErrorIs(t, err, validate.ErrDuplicateDefinition)
}

// Footnote labels are decimal use counts even for numeric keys; numeric keys
// are not lettered the way citation labels are.
func TestFootnoteKey_LabelsAreUseCounts(t *testing.T) {
	t.Parallel()

	v := validate.New()
	for _, key := range []string{"7", "note"} {
		label, err := v.FootnoteKey(key)
		require.NoError(t, err)
		assert.Equal(t, "1", label, key)
	}
	label, err := v.FootnoteKey("7")
	require.NoError(t, err)
	assert.Equal(t, "2", label)
}

func TestFootnoteKey_Characters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		kind error
	}{
		{key: "", kind: validate.ErrBlank},
		{key: "a b", kind: validate.ErrWhitespace},
		{key: "a-b", kind: validate.ErrInvalidChars},
		{key: "é", kind: validate.ErrInvalidChars},
		{key: "*"},
		{key: "✝‡§¶#"},
		{key: "Ab9"},
	}
	for _, tt := range tests {
		v := validate.New()
		_, err := v.FootnoteKey(tt.key)
		if tt.kind == nil {
			assert.NoError(t, err, tt.key)
			continue
		}
		assert.ErrorIs(t, err, tt.kind, tt.key)
	}
}

func TestNamespaceCollision(t *testing.T) {
	t.Parallel()

	v := validate.New()
	_, err := v.CitationKey("k")
	require.NoError(t, err)

	_, err = v.FootnoteKey("k")
	assert.ErrorIs(t, err, validate.ErrNamespaceCollision)

	_, err = v.FootnoteKey("f")
	require.NoError(t, err)
	_, err = v.CitationKey("f")
	assert.ErrorIs(t, err, validate.ErrNamespaceCollision)

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "f", vErr.Key)
	assert.Contains(t, vErr.Error(), "footnote")
}
