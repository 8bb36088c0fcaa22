package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateDocument inserts the document, its chat history and the owner reference in one transaction.
func (r *PGRepo) CreateDocument(ctx context.Context, doc Document) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertDocument = `
INSERT INTO documents (
    id,
    owner_email,
    filename,
    original_name,
    text,
    storage_key,
    size_bytes,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	if _, err = tx.ExecContext(
		ctx,
		insertDocument,
		doc.ID,
		doc.OwnerEmail,
		doc.Filename,
		doc.OriginalName,
		doc.Text,
		storageKey,
		doc.SizeBytes,
		doc.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	const insertHistory = `
INSERT INTO chat_histories (filename, owner_email, created_at)
VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, insertHistory, doc.Filename, doc.OwnerEmail, doc.CreatedAt); err != nil {
		return fmt.Errorf("insert chat history: %w", err)
	}

	const insertUserDocument = `
INSERT INTO user_documents (user_email, document_id)
VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, insertUserDocument, doc.OwnerEmail, doc.ID); err != nil {
		return fmt.Errorf("insert user document: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create document: %w", err)
	}
	return nil
}

// GetByFilename returns a document by storage filename regardless of owner.
func (r *PGRepo) GetByFilename(ctx context.Context, filename string) (Document, error) {
	const query = `
SELECT id, owner_email, filename, original_name, text, storage_key, size_bytes, created_at
FROM documents
WHERE filename = $1
LIMIT 1`
	var doc Document
	var storageKey sql.NullString
	err := r.DB.QueryRowContext(ctx, query, filename).Scan(
		&doc.ID,
		&doc.OwnerEmail,
		&doc.Filename,
		&doc.OriginalName,
		&doc.Text,
		&storageKey,
		&doc.SizeBytes,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	return doc, nil
}

// ListDocuments lists the owner's documents newest first. Text is not loaded.
func (r *PGRepo) ListDocuments(ctx context.Context, ownerEmail string) ([]Document, error) {
	const query = `
SELECT id, owner_email, filename, original_name, storage_key, size_bytes, created_at
FROM documents
WHERE owner_email = $1
ORDER BY created_at DESC, filename DESC`

	rows, err := r.DB.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var doc Document
		var storageKey sql.NullString
		if err := rows.Scan(
			&doc.ID,
			&doc.OwnerEmail,
			&doc.Filename,
			&doc.OriginalName,
			&storageKey,
			&doc.SizeBytes,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if storageKey.Valid {
			doc.StorageKey = storageKey.String
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// CountDocuments counts the owner's document set.
func (r *PGRepo) CountDocuments(ctx context.Context, ownerEmail string) (int, error) {
	const query = `SELECT COUNT(*) FROM user_documents WHERE user_email = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, ownerEmail).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteDocument removes history, owner reference and document in one transaction.
func (r *PGRepo) DeleteDocument(ctx context.Context, ownerEmail, filename string) (doc Document, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, fmt.Errorf("begin delete document: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectDocument = `
SELECT id, storage_key
FROM documents
WHERE filename = $1 AND owner_email = $2
FOR UPDATE`
	var storageKey sql.NullString
	if err = tx.QueryRowContext(ctx, selectDocument, filename, ownerEmail).Scan(&doc.ID, &storageKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
			return Document{}, err
		}
		return Document{}, fmt.Errorf("select document: %w", err)
	}
	doc.OwnerEmail = ownerEmail
	doc.Filename = filename
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}

	const deleteHistory = `DELETE FROM chat_histories WHERE filename = $1 AND owner_email = $2`
	if _, err = tx.ExecContext(ctx, deleteHistory, filename, ownerEmail); err != nil {
		return Document{}, fmt.Errorf("delete chat history: %w", err)
	}

	const deleteUserDocument = `DELETE FROM user_documents WHERE user_email = $1 AND document_id = $2`
	if _, err = tx.ExecContext(ctx, deleteUserDocument, ownerEmail, doc.ID); err != nil {
		return Document{}, fmt.Errorf("delete user document: %w", err)
	}

	const deleteDocument = `DELETE FROM documents WHERE id = $1`
	if _, err = tx.ExecContext(ctx, deleteDocument, doc.ID); err != nil {
		return Document{}, fmt.Errorf("delete document: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("commit delete document: %w", err)
	}
	return doc, nil
}

// GetDocumentText returns the stored text of an owned document.
func (r *PGRepo) GetDocumentText(ctx context.Context, ownerEmail, filename string) (string, error) {
	const query = `SELECT text FROM documents WHERE filename = $1 AND owner_email = $2`
	var text string
	if err := r.DB.QueryRowContext(ctx, query, filename, ownerEmail).Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return text, nil
}

// AppendChat adds a question/answer pair to the document's history.
func (r *PGRepo) AppendChat(ctx context.Context, ownerEmail, filename, question, answer string) error {
	const query = `
INSERT INTO chat_messages (history_id, question, answer)
SELECT id, $3, $4
FROM chat_histories
WHERE filename = $1 AND owner_email = $2`
	res, err := r.DB.ExecContext(ctx, query, filename, ownerEmail, question, answer)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ChatHistory returns turns in insertion order. A missing history yields an empty slice.
func (r *PGRepo) ChatHistory(ctx context.Context, ownerEmail, filename string) ([]ChatTurn, error) {
	const query = `
SELECT m.question, m.answer, m.created_at
FROM chat_messages m
JOIN chat_histories h ON h.id = m.history_id
WHERE h.filename = $1 AND h.owner_email = $2
ORDER BY m.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, filename, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ChatTurn, 0)
	for rows.Next() {
		var turn ChatTurn
		if err := rows.Scan(&turn.Question, &turn.Answer, &turn.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

var _ DocumentsRepo = (*PGRepo)(nil)
