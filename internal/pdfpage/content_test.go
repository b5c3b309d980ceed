package pdfpage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentText_Operators(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Customs Declaration) Tj\n0 -14 Td\n[(No. ) -100 (531620250411)] TJ\nT*\n(Net Weight 9.0) '\nET\n")
	got := parseContentText(stream)

	assert.Contains(t, got, "Customs Declaration")
	assert.Contains(t, got, "No. 531620250411")
	assert.Contains(t, got, "Net Weight 9.0")
}

func TestParseContentText_EmptyStream(t *testing.T) {
	assert.Equal(t, "", parseContentText([]byte("q\n1 0 0 1 0 0 cm\nQ\n")))
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, "tab\there", decodePDFString([]byte(`tab\there`)))
	// Octal escape \040 is a space.
	assert.Equal(t, "a b", decodePDFString([]byte(`a\040b`)))
	assert.Equal(t, `back\slash`, decodePDFString([]byte(`back\\slash`)))
}

func TestFindPageImage_MatchesSourceAndPage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha_1_Im0.png", "bravo_1_Im0.png", "bravo_12_Im0.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
	}

	// Several PDFs exporting into one directory must not cross wires.
	got, err := findPageImage(dir, "/inbox/bravo.pdf", 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bravo_1_Im0.png"), got)

	got, err = findPageImage(dir, "/inbox/alpha.pdf", 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alpha_1_Im0.png"), got)

	// Page 1 must not match page 12's image.
	got, err = findPageImage(dir, "/inbox/bravo.pdf", 12)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bravo_12_Im0.png"), got)

	_, err = findPageImage(dir, "/inbox/charlie.pdf", 1)
	assert.Error(t, err)
}
