package domain

import "errors"

var (
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument        = errors.New("document contains no extractable text")
	ErrUnknownDocumentType  = errors.New("unknown document type")
	ErrInvalidScoreRequest  = errors.New("invalid score request")
	ErrInvalidExtraction    = errors.New("extraction result does not match schema")
	ErrUnsupportedExport    = errors.New("unsupported export format")
	ErrArchiveFailed        = errors.New("report archive failed")
	ErrOCREngineUnavailable = errors.New("ocr engine unavailable")
)
