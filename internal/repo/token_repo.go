package repo

import (
	"context"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func (s *Store) InsertToken(ctx context.Context, t *domain.AccessToken) (err error) {
	sp, ctx := startSpan(ctx, "mongo.token.insert", tracer.Tag("domain", t.Domain))
	defer func() { finish(sp, err) }()

	_, err = s.colToken.InsertOne(ctx, t)
	return err
}

// FindToken looks a token up by value and owning slug. Expiry is left to the
// caller so it can tell an expired token from an unknown one.
func (s *Store) FindToken(ctx context.Context, token, slug string) (_ *domain.AccessToken, err error) {
	sp, ctx := startSpan(ctx, "mongo.token.find", tracer.Tag("domain", slug))
	defer func() { finish(sp, err) }()

	var t domain.AccessToken
	err = s.colToken.FindOne(ctx, bson.M{"_id": token, "domain": slug}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) DeleteTokensByDomain(ctx context.Context, slug string) (_ int64, err error) {
	sp, ctx := startSpan(ctx, "mongo.token.delete_many", tracer.Tag("domain", slug))
	defer func() { finish(sp, err) }()

	res, err := s.colToken.DeleteMany(ctx, bson.M{"domain": slug})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) CountLiveTokens(ctx context.Context, now time.Time) (int64, error) {
	return s.colToken.CountDocuments(ctx, bson.M{"expires_at": bson.M{"$gt": now}})
}
