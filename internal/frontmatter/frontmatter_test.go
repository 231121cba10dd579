package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello World\nstatus: published\n---\nBody text")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: Hello World\nstatus: published\n", string(fm))
	require.Equal(t, "Body text", string(body))
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: x\n# Title\n")

	_, _, had, _, err := Split(input)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: value\r\n---\r\n# Title\r\n")

	fm, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, "title: value\r\n", string(fm))
	require.Equal(t, "# Title\r\n", string(body))
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, "# Title\n", string(body))
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: x\n", string(fm))
	require.Empty(t, body)
}

func TestSplit_DelimiterMustBeExact(t *testing.T) {
	cases := []string{
		"--- \ntitle: x\n---\nbody",
		"----\ntitle: x\n---\nbody",
		"\n---\ntitle: x\n---\nbody",
		"text\n---\ntitle: x\n---\nbody",
	}
	for _, input := range cases {
		_, body, had, _, err := Split([]byte(input))
		require.NoError(t, err, input)
		require.False(t, had, input)
		require.Equal(t, input, string(body))
	}

	// A closing line with trailing text does not close the block.
	fm, body, had, _, err := Split([]byte("---\na: 1\n---x\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "a: 1\n---x\n", string(fm))
	require.Equal(t, "body", string(body))
}

func TestStrip_RemovesOnlyFirstBlock(t *testing.T) {
	input := []byte("---\ntitle: A\n---\nintro\n---\nnot: frontmatter\n---\nrest\n")

	require.Equal(t, "intro\n---\nnot: frontmatter\n---\nrest\n", string(Strip(input)))
}

func TestStrip_NoBlock_ReturnsContentUnchanged(t *testing.T) {
	for _, input := range []string{"plain body\n", "---\nunclosed\n", ""} {
		require.Equal(t, input, string(Strip([]byte(input))))
	}
}

func TestCut_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
		"---\r\nkey: value\n---\nmixed\r\n",
		"---\nkey: value\n---",
		"---\nunclosed\n",
		"",
	}

	for _, input := range cases {
		block, body, _, _ := Cut([]byte(input))
		require.Equal(t, input, string(block)+string(body))
	}
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		fm, body, had, style, err := Split(input)
		require.NoError(t, err)

		out := Join(fm, body, had, style)
		require.Equal(t, input, out)
	}
}

func TestParse_ExtractsFields(t *testing.T) {
	meta, err := Parse([]byte("---\ntitle: Hello World\nstatus: published\ntags:\n  - go\n---\nBody"))
	require.NoError(t, err)

	title, ok := meta.Title()
	require.True(t, ok)
	require.Equal(t, "Hello World", title)
	require.Equal(t, "published", meta.Status("draft"))
	require.Equal(t, []any{"go"}, meta["tags"])
}

func TestParse_NoFrontmatter_ReturnsEmptyMap(t *testing.T) {
	for _, input := range []string{"Body only", "---\nunclosed", ""} {
		meta, err := Parse([]byte(input))
		require.NoError(t, err)
		require.NotNil(t, meta)
		require.Empty(t, meta)
	}
}

func TestParse_NonMapping_ReturnsErrorAndEmptyMap(t *testing.T) {
	meta, err := Parse([]byte("---\n- one\n- two\n---\nBody"))
	require.ErrorIs(t, err, ErrNotMapping)
	require.NotNil(t, meta)
	require.Empty(t, meta)

	meta, err = Parse([]byte("---\ntitle: [unterminated\n---\nBody"))
	require.Error(t, err)
	require.Empty(t, meta)
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	for _, input := range []string{"", "  \n", "~\n", "# only a comment\n"} {
		fields, err := ParseYAML([]byte(input))
		require.NoError(t, err, input)
		require.Empty(t, fields, input)
	}
}

func TestParseYAML_ScalarIsNotMapping(t *testing.T) {
	_, err := ParseYAML([]byte("just a string\n"))
	require.ErrorIs(t, err, ErrNotMapping)
}
