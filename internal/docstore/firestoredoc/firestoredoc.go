// Package firestoredoc implements docstore.Client on Cloud Firestore.
package firestoredoc

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simp-lee/transitdesk/internal/docstore"
)

// Config selects the Firestore project and credentials.
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Store is a docstore.Client backed by a Firestore client.
type Store struct {
	client *firestore.Client
}

var _ docstore.Client = (*Store)(nil)

// Open creates a Firestore client for cfg.ProjectID. When CredentialsFile is
// empty, application default credentials are used; the client library also
// honours FIRESTORE_EMULATOR_HOST.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// New wraps an existing client.
func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return toDocument(snap), nil
}

func (s *Store) Run(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, "==", f.Value)
	}
	if q.OrderField != "" {
		dir := direction(q.OrderDir)
		fq = fq.OrderBy(q.OrderField, dir).OrderBy(firestore.DocumentID, dir)
		if q.AfterID != "" {
			fq = fq.StartAfter(append(append([]any(nil), q.AfterVals...), q.AfterID)...)
		}
	}
	if q.Max > 0 {
		fq = fq.Limit(q.Max)
	}

	it := fq.Documents(ctx)
	defer it.Stop()

	var docs []docstore.Document
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, translate(err)
		}
		docs = append(docs, *toDocument(snap))
	}
	return docs, nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, resolve(data))
	if err != nil {
		return "", translate(err)
	}
	return ref.ID, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Create(ctx, resolve(data))
	return translate(err)
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) error {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range resolve(data) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	return translate(err)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return translate(err)
}

// Ping lists at most one collection to verify connectivity and credentials.
func (s *Store) Ping(ctx context.Context) error {
	it := s.client.Collections(ctx)
	_, err := it.Next()
	if err == iterator.Done {
		return nil
	}
	return translate(err)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func direction(d docstore.Direction) firestore.Direction {
	if d == docstore.Desc {
		return firestore.Desc
	}
	return firestore.Asc
}

// resolve swaps the docstore sentinel for Firestore's own.
func resolve(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if docstore.IsServerTimestamp(v) {
			v = firestore.ServerTimestamp
		}
		out[k] = v
	}
	return out
}

func toDocument(snap *firestore.DocumentSnapshot) *docstore.Document {
	data := snap.Data()
	if data == nil {
		data = map[string]any{}
	}
	return &docstore.Document{ID: snap.Ref.ID, Data: data}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return docstore.ErrNotFound
	case codes.AlreadyExists:
		return docstore.ErrAlreadyExists
	}
	return err
}
