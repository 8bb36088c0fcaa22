package documents

import "context"

// DocumentsRepo defines persistence operations for documents, their chat
// histories and the owner's document set.
type DocumentsRepo interface {
	// CreateDocument stores the document, an empty chat history and the owner reference atomically.
	CreateDocument(ctx context.Context, doc Document) error
	// GetByFilename loads a document regardless of owner. Only the guard should call it.
	GetByFilename(ctx context.Context, filename string) (Document, error)
	ListDocuments(ctx context.Context, ownerEmail string) ([]Document, error)
	CountDocuments(ctx context.Context, ownerEmail string) (int, error)
	// DeleteDocument removes the chat history, the owner reference and the document, and
	// returns the deleted document.
	DeleteDocument(ctx context.Context, ownerEmail, filename string) (Document, error)
	GetDocumentText(ctx context.Context, ownerEmail, filename string) (string, error)
	AppendChat(ctx context.Context, ownerEmail, filename, question, answer string) error
	ChatHistory(ctx context.Context, ownerEmail, filename string) ([]ChatTurn, error)
}
