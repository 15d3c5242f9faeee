package entity

import "time"

type DocumentSource string

const (
	DocumentSourcePredefined DocumentSource = "predefined"
	DocumentSourceUploaded   DocumentSource = "uploaded"
)

// AttachableDocument is anything the selection panel can attach to a turn:
// a catalog entry or a session upload. ExtractedText may be empty for
// predefined documents until the stored file has been fetched and parsed.
type AttachableDocument struct {
	Id            string
	DisplayName   string
	Icon          string
	SourceKind    DocumentSource
	Locator       string
	URL           string
	ExtractedText string
	UploadedAt    time.Time
}
