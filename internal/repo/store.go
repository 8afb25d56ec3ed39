package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const (
	colDomains = "domains"
	colTokens  = "tokens"
)

type Store struct {
	Client    *mongo.Client
	DB        *mongo.Database
	colDomain *mongo.Collection
	colToken  *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:    cli,
		DB:        db,
		colDomain: db.Collection(colDomains),
		colToken:  db.Collection(colTokens),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes creates the TTL indexes that let Mongo reclaim expired
// domains and tokens. Reads never rely on them: expiry is checked per request.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.colDomain.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expire"),
	})
	if err != nil {
		return err
	}

	_, err = s.colToken.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expire"),
		},
		{
			// cascade delete by domain
			Keys:    bson.D{{Key: "domain", Value: 1}},
			Options: options.Index().SetName("domain"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

func startSpan(ctx context.Context, op string, opts ...tracer.StartSpanOption) (ddtrace.Span, context.Context) {
	opts = append(opts, tracer.SpanType("mongodb"), tracer.ServiceName("sendy-mongo"))
	return tracer.StartSpanFromContext(ctx, op, opts...)
}

func finish(sp ddtrace.Span, err error) {
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		sp.Finish(tracer.WithError(err))
		return
	}
	sp.Finish()
}
