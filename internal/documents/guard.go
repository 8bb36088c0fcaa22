package documents

import (
	"context"
	"errors"
	"strings"
)

// Guard checks that a caller owns the document they address. A missing document
// and a document owned by someone else both yield ErrNotFound.
type Guard struct {
	Repo DocumentsRepo
}

// NewGuard constructs a Guard.
func NewGuard(repo DocumentsRepo) *Guard {
	return &Guard{Repo: repo}
}

// Authorize returns the document when ownerEmail owns filename.
func (g *Guard) Authorize(ctx context.Context, ownerEmail, filename string) (Document, error) {
	filename = strings.TrimSpace(filename)
	if ownerEmail == "" || filename == "" {
		return Document{}, ErrNotFound
	}
	doc, err := g.Repo.GetByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if doc.OwnerEmail != ownerEmail {
		return Document{}, ErrNotFound
	}
	return doc, nil
}
