package documents

import "time"

// Document is an uploaded file's extracted text plus its ownership metadata.
// Filename is the generated storage filename clients use to address the document.
type Document struct {
	ID           string
	OwnerEmail   string
	Filename     string
	OriginalName string
	Text         string
	StorageKey   string
	SizeBytes    int64
	CreatedAt    time.Time
}

// ChatTurn is one question/answer pair in a document's chat history.
type ChatTurn struct {
	Question  string
	Answer    string
	CreatedAt time.Time
}
