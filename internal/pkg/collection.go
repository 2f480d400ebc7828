package pkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/metrics"
)

// Collection is the shared read/write path behind every entity repository.
// It owns the document store round trip, error translation, logging and
// metrics; repositories supply the field mapping.
type Collection[T any] struct {
	Client   docstore.Client
	Name     string // collection name, e.g. "routes"
	Singular string // entity name used in messages, e.g. "route"
	Order    string
	Dir      docstore.Direction
	Decode   func(docstore.Document) T
}

// Query starts a query over the collection with its fixed order applied.
func (c Collection[T]) Query() docstore.Query {
	return docstore.From(c.Name).OrderBy(c.Order, c.Dir)
}

// Get returns (nil, nil) when the document does not exist.
func (c Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	start := time.Now()
	doc, err := c.Client.Get(ctx, c.Name, id)
	if errors.Is(err, docstore.ErrNotFound) {
		metrics.ObserveRepository(c.Name, "get", start, nil)
		return nil, nil
	}
	metrics.ObserveRepository(c.Name, "get", start, err)
	if err != nil {
		return nil, c.storageError(ctx, "fetch", err, slog.String("id", id))
	}
	v := c.Decode(*doc)
	return &v, nil
}

// Page reads one page of q, which must come from Query.
func (c Collection[T]) Page(ctx context.Context, q docstore.Query, req domain.PageRequest) (*domain.Page[T], error) {
	start := time.Now()
	page, err := FetchPage(ctx, c.Client, q, req, c.Decode)
	if domain.IsValidation(err) {
		return nil, err
	}
	metrics.ObserveRepository(c.Name, "get_all", start, err)
	if err != nil {
		return nil, c.storageError(ctx, "list", err)
	}
	return page, nil
}

// Create stamps both timestamps, stores data and reads the result back.
func (c Collection[T]) Create(ctx context.Context, data map[string]any) (*T, error) {
	data["createdAt"] = docstore.ServerTimestamp
	data["updatedAt"] = docstore.ServerTimestamp

	start := time.Now()
	id, err := c.Client.Add(ctx, c.Name, data)
	metrics.ObserveRepository(c.Name, "create", start, err)
	if err != nil {
		return nil, c.storageError(ctx, "create", err)
	}
	return c.reread(ctx, id, "created")
}

// CreateWithID is Create for documents whose id is chosen by the caller.
// A taken id is reported as AlreadyExists and the stored document is kept.
func (c Collection[T]) CreateWithID(ctx context.Context, id string, data map[string]any) (*T, error) {
	data["createdAt"] = docstore.ServerTimestamp
	data["updatedAt"] = docstore.ServerTimestamp

	start := time.Now()
	err := c.Client.Create(ctx, c.Name, id, data)
	if errors.Is(err, docstore.ErrAlreadyExists) {
		metrics.ObserveRepository(c.Name, "create", start, nil)
		return nil, domain.NewAppError(domain.CodeAlreadyExists, fmt.Sprintf("%s already exists", c.Singular), err)
	}
	metrics.ObserveRepository(c.Name, "create", start, err)
	if err != nil {
		return nil, c.storageError(ctx, "create", err, slog.String("id", id))
	}
	return c.reread(ctx, id, "created")
}

// Update merges data, refreshes updatedAt and reads the result back.
// A missing document is reported as domain.ErrNotFound.
func (c Collection[T]) Update(ctx context.Context, id string, data map[string]any) (*T, error) {
	if err := c.Patch(ctx, id, data); err != nil {
		return nil, err
	}
	return c.reread(ctx, id, "updated")
}

// Patch is Update without the read back.
func (c Collection[T]) Patch(ctx context.Context, id string, data map[string]any) error {
	data["updatedAt"] = docstore.ServerTimestamp

	start := time.Now()
	err := c.Client.Update(ctx, c.Name, id, data)
	if errors.Is(err, docstore.ErrNotFound) {
		metrics.ObserveRepository(c.Name, "update", start, nil)
		return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("%s not found", c.Singular), err)
	}
	metrics.ObserveRepository(c.Name, "update", start, err)
	if err != nil {
		return c.storageError(ctx, "update", err, slog.String("id", id))
	}
	return nil
}

// Delete removes the document without checking that it exists.
func (c Collection[T]) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := c.Client.Delete(ctx, c.Name, id)
	metrics.ObserveRepository(c.Name, "delete", start, err)
	if err != nil {
		return c.storageError(ctx, "delete", err, slog.String("id", id))
	}
	return nil
}

func (c Collection[T]) reread(ctx context.Context, id, verb string) (*T, error) {
	v, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		slog.WarnContext(ctx, "document missing after write",
			slog.String("collection", c.Name), slog.String("id", id))
		return nil, domain.NewRetrievalError(fmt.Sprintf("Failed to retrieve %s %s", verb, c.Singular))
	}
	return v, nil
}

// storageError logs cause and hides it behind a stable message.
func (c Collection[T]) storageError(ctx context.Context, action string, cause error, attrs ...any) error {
	var msg string
	switch action {
	case "list":
		msg = "Failed to fetch " + c.Name
	case "fetch":
		msg = "Failed to fetch " + c.Singular
	default:
		msg = fmt.Sprintf("Failed to %s %s", action, c.Singular)
	}
	args := append([]any{slog.String("collection", c.Name), slog.Any("error", cause)}, attrs...)
	slog.ErrorContext(ctx, msg, args...)
	return domain.NewStorageError(msg, cause)
}
