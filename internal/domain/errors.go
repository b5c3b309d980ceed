package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("extraction record not found")
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrUnknownProvider     = errors.New("unknown extraction provider")
	ErrStoreUnavailable    = errors.New("record store unavailable")
	ErrNoPagesSelected     = errors.New("no pages selected")
)
