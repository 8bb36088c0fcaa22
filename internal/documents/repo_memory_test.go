package documents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedDoc(t *testing.T, repo *MemoryRepo, id, owner, filename string, createdAt time.Time) Document {
	t.Helper()
	doc := Document{
		ID:           id,
		OwnerEmail:   owner,
		Filename:     filename,
		OriginalName: filename,
		Text:         "text of " + filename,
		CreatedAt:    createdAt,
	}
	if err := repo.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	return doc
}

func TestMemoryRepoListNewestFirstAndOwnerScoped(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seedDoc(t, repo, "1", "alice@example.com", "a.pdf", base)
	seedDoc(t, repo, "2", "alice@example.com", "b.pdf", base.Add(time.Hour))
	seedDoc(t, repo, "3", "bob@example.com", "c.pdf", base.Add(2*time.Hour))

	docs, err := repo.ListDocuments(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 || docs[0].Filename != "b.pdf" || docs[1].Filename != "a.pdf" {
		t.Fatalf("unexpected docs: %+v", docs)
	}

	n, err := repo.CountDocuments(context.Background(), "alice@example.com")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 documents, got %d err=%v", n, err)
	}
}

func TestMemoryRepoRejectsDuplicateFilename(t *testing.T) {
	repo := NewMemoryRepo()
	seedDoc(t, repo, "1", "alice@example.com", "a.pdf", time.Now())

	err := repo.CreateDocument(context.Background(), Document{ID: "2", OwnerEmail: "bob@example.com", Filename: "a.pdf"})
	if err == nil {
		t.Fatalf("expected duplicate filename to fail")
	}
	if n, _ := repo.CountDocuments(context.Background(), "bob@example.com"); n != 0 {
		t.Fatalf("expected nothing persisted for bob, got %d", n)
	}
}

func TestMemoryRepoChatHistoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	seedDoc(t, repo, "1", "alice@example.com", "a.pdf", time.Now())

	turns, err := repo.ChatHistory(ctx, "alice@example.com", "a.pdf")
	if err != nil || len(turns) != 0 {
		t.Fatalf("expected empty history, got %v err=%v", turns, err)
	}

	for _, q := range []string{"q1", "q2", "q3"} {
		if err := repo.AppendChat(ctx, "alice@example.com", "a.pdf", q, "answer "+q); err != nil {
			t.Fatalf("AppendChat: %v", err)
		}
	}
	turns, _ = repo.ChatHistory(ctx, "alice@example.com", "a.pdf")
	if len(turns) != 3 || turns[0].Question != "q1" || turns[2].Answer != "answer q3" {
		t.Fatalf("unexpected turns: %+v", turns)
	}

	if err := repo.AppendChat(ctx, "bob@example.com", "a.pdf", "q", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign append, got %v", err)
	}

	if _, err := repo.DeleteDocument(ctx, "bob@example.com", "a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	deleted, err := repo.DeleteDocument(ctx, "alice@example.com", "a.pdf")
	if err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if deleted.ID != "1" {
		t.Fatalf("expected deleted document returned, got %+v", deleted)
	}

	turns, err = repo.ChatHistory(ctx, "alice@example.com", "a.pdf")
	if err != nil || len(turns) != 0 {
		t.Fatalf("expected history removed, got %v err=%v", turns, err)
	}
	if _, err := repo.GetDocumentText(ctx, "alice@example.com", "a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if n, _ := repo.CountDocuments(ctx, "alice@example.com"); n != 0 {
		t.Fatalf("expected owner reference removed, got %d", n)
	}
	if _, err := repo.DeleteDocument(ctx, "alice@example.com", "a.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryRepoHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewMemoryRepo()
	if err := repo.CreateDocument(ctx, Document{Filename: "a.pdf"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
