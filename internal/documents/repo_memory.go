package documents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type historyKey struct {
	filename string
	owner    string
}

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu        sync.RWMutex
	docs      map[string]Document            // filename -> document
	histories map[historyKey][]ChatTurn      // (filename, owner) -> turns
	userDocs  map[string]map[string]struct{} // owner -> document ids
	now       func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs:      make(map[string]Document),
		histories: make(map[historyKey][]ChatTurn),
		userDocs:  make(map[string]map[string]struct{}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateDocument stores the document with its empty history and owner reference under one lock.
func (r *MemoryRepo) CreateDocument(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.Filename]; exists {
		return fmt.Errorf("document %s already exists", doc.Filename)
	}
	r.docs[doc.Filename] = doc
	r.histories[historyKey{filename: doc.Filename, owner: doc.OwnerEmail}] = []ChatTurn{}
	set, ok := r.userDocs[doc.OwnerEmail]
	if !ok {
		set = make(map[string]struct{})
		r.userDocs[doc.OwnerEmail] = set
	}
	set[doc.ID] = struct{}{}
	return nil
}

// GetByFilename returns a document by its storage filename.
func (r *MemoryRepo) GetByFilename(ctx context.Context, filename string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[filename]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListDocuments returns the owner's documents, newest first.
func (r *MemoryRepo) ListDocuments(ctx context.Context, ownerEmail string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0)
	for _, doc := range r.docs {
		if doc.OwnerEmail == ownerEmail {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].Filename > docs[j].Filename
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// CountDocuments returns the size of the owner's document set.
func (r *MemoryRepo) CountDocuments(ctx context.Context, ownerEmail string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userDocs[ownerEmail]), nil
}

// DeleteDocument removes the history, the owner reference and the document.
func (r *MemoryRepo) DeleteDocument(ctx context.Context, ownerEmail, filename string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[filename]
	if !ok || doc.OwnerEmail != ownerEmail {
		return Document{}, ErrNotFound
	}
	delete(r.histories, historyKey{filename: filename, owner: ownerEmail})
	if set, ok := r.userDocs[ownerEmail]; ok {
		delete(set, doc.ID)
	}
	delete(r.docs, filename)
	return doc, nil
}

// GetDocumentText returns the stored text of an owned document.
func (r *MemoryRepo) GetDocumentText(ctx context.Context, ownerEmail, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[filename]
	if !ok || doc.OwnerEmail != ownerEmail {
		return "", ErrNotFound
	}
	return doc.Text, nil
}

// AppendChat adds a question/answer pair to an existing history.
func (r *MemoryRepo) AppendChat(ctx context.Context, ownerEmail, filename, question, answer string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := historyKey{filename: filename, owner: ownerEmail}
	turns, ok := r.histories[key]
	if !ok {
		return ErrNotFound
	}
	r.histories[key] = append(turns, ChatTurn{Question: question, Answer: answer, CreatedAt: r.now()})
	return nil
}

// ChatHistory returns a copy of the turns in insertion order. A missing history is empty.
func (r *MemoryRepo) ChatHistory(ctx context.Context, ownerEmail, filename string) ([]ChatTurn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	turns := r.histories[historyKey{filename: filename, owner: ownerEmail}]
	out := make([]ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
