package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/domain"
)

func TestBuildPrompt_SubstitutesExtractedText(t *testing.T) {
	prompt, err := BuildPrompt(domain.DocTypeDeclaration, "531620250411 报关单")
	require.NoError(t, err)
	assert.Contains(t, prompt, "531620250411 报关单")
	assert.NotContains(t, prompt, "{{EXTRACTED_TEXT}}")
	assert.Contains(t, prompt, "RETURN ONLY JSON")
}

func TestBuildPrompt_TemplatesWithoutPlaceholder(t *testing.T) {
	prompt, err := BuildPrompt(domain.DocTypeNotification, "ignored")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "ignored")
}

func TestBuildPrompt_UnknownType(t *testing.T) {
	_, err := BuildPrompt(domain.DocumentType("invoice"), "")
	assert.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}
