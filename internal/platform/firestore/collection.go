package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
)

// Document represents a strongly typed Firestore document with metadata timestamps.
type Document[T any] struct {
	ID         string
	Data       T
	CreateTime time.Time
	UpdateTime time.Time
}

// QueryBuilder customises Firestore queries before execution.
type QueryBuilder func(query firestore.Query) firestore.Query

// Collection provides typed helpers wrapping Firestore collection access.
type Collection[T any] struct {
	provider *Provider
	name     string
}

// NewCollection binds a typed Collection to a named Firestore collection.
func NewCollection[T any](provider *Provider, name string) *Collection[T] {
	return &Collection[T]{
		provider: provider,
		name:     strings.TrimSpace(name),
	}
}

// Get fetches the document by ID and decodes it into the entity type.
func (c *Collection[T]) Get(ctx context.Context, id string) (Document[T], error) {
	doc, err := c.Ref(ctx, id)
	if err != nil {
		return Document[T]{}, err
	}

	snapshot, err := doc.Get(ctx)
	if err != nil {
		return Document[T]{}, WrapError(c.op("get"), err)
	}
	return Decode[T](snapshot)
}

// Set upserts the given value under the provided document ID.
func (c *Collection[T]) Set(ctx context.Context, id string, value T) error {
	doc, err := c.Ref(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Set(ctx, value); err != nil {
		return WrapError(c.op("set"), err)
	}
	return nil
}

// Create inserts a new document, failing with a conflict when the ID exists.
func (c *Collection[T]) Create(ctx context.Context, id string, value T) error {
	doc, err := c.Ref(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Create(ctx, value); err != nil {
		return WrapError(c.op("create"), err)
	}
	return nil
}

// Update applies partial updates to the document.
func (c *Collection[T]) Update(ctx context.Context, id string, updates []firestore.Update) error {
	doc, err := c.Ref(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Update(ctx, updates); err != nil {
		return WrapError(c.op("update"), err)
	}
	return nil
}

// Delete removes the document by ID. Deleting a missing document is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	doc, err := c.Ref(ctx, id)
	if err != nil {
		return err
	}
	if _, err := doc.Delete(ctx); err != nil {
		return WrapError(c.op("delete"), err)
	}
	return nil
}

// Query executes a collection query and returns the decoded documents.
func (c *Collection[T]) Query(ctx context.Context, build QueryBuilder) ([]Document[T], error) {
	coll, err := c.ref(ctx)
	if err != nil {
		return nil, err
	}

	query := coll.Query
	if build != nil {
		query = build(query)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document[T]
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, WrapError(c.op("query"), err)
		}
		decoded, err := Decode[T](snapshot)
		if err != nil {
			return nil, fmt.Errorf("firestore: decode document %s: %w", snapshot.Ref.ID, err)
		}
		docs = append(docs, decoded)
	}
	return docs, nil
}

// Count runs a server-side aggregation returning the number of documents
// matched by the query.
func (c *Collection[T]) Count(ctx context.Context, build QueryBuilder) (int64, error) {
	coll, err := c.ref(ctx)
	if err != nil {
		return 0, err
	}

	query := coll.Query
	if build != nil {
		query = build(query)
	}

	results, err := query.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, WrapError(c.op("count"), err)
	}
	raw, ok := results["total"]
	if !ok {
		return 0, WrapError(c.op("count"), errors.New("firestore: aggregation result missing"))
	}
	value, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, WrapError(c.op("count"), fmt.Errorf("firestore: unexpected aggregation type %T", raw))
	}
	return value.GetIntegerValue(), nil
}

// Ref exposes the underlying document reference for transactions.
func (c *Collection[T]) Ref(ctx context.Context, id string) (*firestore.DocumentRef, error) {
	if strings.TrimSpace(id) == "" {
		return nil, WrapError(c.op("document"), errors.New("firestore: document id is required"))
	}
	coll, err := c.ref(ctx)
	if err != nil {
		return nil, err
	}
	return coll.Doc(id), nil
}

func (c *Collection[T]) ref(ctx context.Context) (*firestore.CollectionRef, error) {
	if c == nil || c.provider == nil {
		return nil, WrapError(c.op("collection"), errors.New("firestore: provider is nil"))
	}
	if c.name == "" {
		return nil, WrapError(c.op("collection"), errors.New("firestore: collection name is required"))
	}
	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(c.name), nil
}

func (c *Collection[T]) op(action string) string {
	name := "firestore"
	if c != nil && c.name != "" {
		name = c.name
	}
	return fmt.Sprintf("%s.%s", name, action)
}

// Decode hydrates a typed Document from a raw snapshot. Repositories use it
// for reads performed inside transactions.
func Decode[T any](snapshot *firestore.DocumentSnapshot) (Document[T], error) {
	var data T
	if err := snapshot.DataTo(&data); err != nil {
		return Document[T]{}, err
	}
	return Document[T]{
		ID:         snapshot.Ref.ID,
		Data:       data,
		CreateTime: snapshot.CreateTime,
		UpdateTime: snapshot.UpdateTime,
	}, nil
}
