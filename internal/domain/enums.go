package domain

// DocumentType identifies the kind of trade document being extracted.
type DocumentType string

const (
	DocTypeDeclaration  DocumentType = "declaration"
	DocTypeNotification DocumentType = "notification"
	DocTypePacking      DocumentType = "packing"
)

// KnownDocumentTypes maps valid document type strings to their DocumentType.
var KnownDocumentTypes = map[string]DocumentType{
	"declaration":  DocTypeDeclaration,
	"notification": DocTypeNotification,
	"packing":      DocTypePacking,
}

// FailureReason tags a non-success extraction outcome.
type FailureReason string

const (
	// ReasonProviderError covers transport and auth failures, non-success
	// HTTP statuses, and non-zero process exits.
	ReasonProviderError FailureReason = "provider-error"
	// ReasonTimeout means the external call exceeded its bound. The failure
	// must carry whatever partial output was captured before the deadline.
	ReasonTimeout FailureReason = "timeout"
	// ReasonMalformedOutput means a response was received but no valid
	// structured data could be recovered from it.
	ReasonMalformedOutput FailureReason = "malformed-output"
)

// RunStatus is the ledger status of one processed batch unit.
type RunStatus string

const (
	RunStatusSaved   RunStatus = "saved"
	RunStatusSkipped RunStatus = "skipped"
	RunStatusFailed  RunStatus = "failed"
)
