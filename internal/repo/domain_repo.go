package repo

import (
	"context"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// CreateDomain writes d unless a live domain with the same slug exists.
// The filter only matches an expired document; when a live one is present
// the upsert falls through to an insert that collides on _id, so the
// conflict check and the write are a single atomic operation.
func (s *Store) CreateDomain(ctx context.Context, d *domain.Domain, now time.Time) (err error) {
	sp, ctx := startSpan(ctx, "mongo.domain.create", tracer.Tag("slug", d.Slug))
	defer func() { finish(sp, err) }()

	_, err = s.colDomain.ReplaceOne(ctx,
		bson.M{"_id": d.Slug, "expires_at": bson.M{"$lte": now}},
		d,
		options.Replace().SetUpsert(true),
	)
	if IsDup(err) {
		return domain.Errorf(domain.ErrConflict, "Domain already exists")
	}
	return err
}

// FindDomain returns nil, nil when no document exists, expired or not.
func (s *Store) FindDomain(ctx context.Context, slug string) (_ *domain.Domain, err error) {
	sp, ctx := startSpan(ctx, "mongo.domain.find", tracer.Tag("slug", slug))
	defer func() { finish(sp, err) }()

	var d domain.Domain
	err = s.colDomain.FindOne(ctx, bson.M{"_id": slug}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDomainContents replaces content, meta and files and returns the
// document as stored afterwards, or nil if it disappeared.
func (s *Store) UpdateDomainContents(ctx context.Context, slug string, c domain.Contents) (_ *domain.Domain, err error) {
	sp, ctx := startSpan(ctx, "mongo.domain.update", tracer.Tag("slug", slug))
	defer func() { finish(sp, err) }()

	var d domain.Domain
	err = s.colDomain.FindOneAndUpdate(ctx,
		bson.M{"_id": slug},
		bson.M{"$set": bson.M{
			"content": c.Content,
			"meta":    c.Meta,
			"files":   c.Files,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) DeleteDomain(ctx context.Context, slug string) (_ bool, err error) {
	sp, ctx := startSpan(ctx, "mongo.domain.delete", tracer.Tag("slug", slug))
	defer func() { finish(sp, err) }()

	res, err := s.colDomain.DeleteOne(ctx, bson.M{"_id": slug})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) CountLiveDomains(ctx context.Context, now time.Time) (int64, error) {
	return s.colDomain.CountDocuments(ctx, bson.M{"expires_at": bson.M{"$gt": now}})
}
