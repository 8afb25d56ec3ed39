package repo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	"github.com/mallikarjuna-sindiri/sendy/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(mc) })

	uri, err := mc.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := repo.NewStore(ctx, uri, "sendy_repo_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func newDomain(slug string, now time.Time, ttl time.Duration) *domain.Domain {
	return &domain.Domain{
		Slug:      slug,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Meta:      domain.DefaultMeta(),
		Files:     []domain.FileMeta{},
	}
}

func TestStore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("indexes", func(t *testing.T) {
		for _, col := range []string{"domains", "tokens"} {
			cur, err := s.DB.Collection(col).Indexes().List(ctx)
			require.NoError(t, err)
			var idx []bson.M
			require.NoError(t, cur.All(ctx, &idx))

			var ttl bson.M
			for _, i := range idx {
				if i["name"] == "ttl_expire" {
					ttl = i
				}
			}
			require.NotNil(t, ttl, col)
			assert.EqualValues(t, 0, ttl["expireAfterSeconds"])
		}
	})

	t.Run("create conflicts while live", func(t *testing.T) {
		require.NoError(t, s.CreateDomain(ctx, newDomain("live-one", now, time.Hour), now))

		err := s.CreateDomain(ctx, newDomain("live-one", now, time.Hour), now)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("create overwrites expired", func(t *testing.T) {
		old := newDomain("stale", now.Add(-2*time.Hour), time.Hour)
		old.Content = "old"
		old.PasswordHash = "x"
		require.NoError(t, s.CreateDomain(ctx, old, old.CreatedAt))

		fresh := newDomain("stale", now, time.Hour)
		require.NoError(t, s.CreateDomain(ctx, fresh, now))

		got, err := s.FindDomain(ctx, "stale")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "", got.Content)
		assert.False(t, got.Locked())
		assert.Equal(t, fresh.ExpiresAt, got.ExpiresAt)
	})

	t.Run("concurrent creates have one winner", func(t *testing.T) {
		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.CreateDomain(ctx, newDomain("race", now, time.Hour), now)
			}(i)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("find missing", func(t *testing.T) {
		d, err := s.FindDomain(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("update replaces contents", func(t *testing.T) {
		d := newDomain("edit", now, time.Hour)
		d.PasswordHash = "hash"
		require.NoError(t, s.CreateDomain(ctx, d, now))

		got, err := s.UpdateDomainContents(ctx, "edit", domain.Contents{
			Content: "hello",
			Meta:    domain.Meta{FontSize: 20, Color: "#000", Bold: true},
			Files:   []domain.FileMeta{{ID: "1", Name: "a", Size: 1, UploadedAt: now}},
		})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "hello", got.Content)
		assert.Len(t, got.Files, 1)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.Equal(t, d.ExpiresAt, got.ExpiresAt)

		got, err = s.UpdateDomainContents(ctx, "absent", domain.Contents{})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("tokens cascade", func(t *testing.T) {
		require.NoError(t, s.CreateDomain(ctx, newDomain("with-tokens", now, time.Hour), now))
		for _, tok := range []string{"t1", "t2"} {
			require.NoError(t, s.InsertToken(ctx, &domain.AccessToken{
				Token: tok, Domain: "with-tokens", DomainCreatedAt: now.Add(-time.Minute),
				CreatedAt: now, ExpiresAt: now.Add(time.Hour),
			}))
		}
		require.NoError(t, s.InsertToken(ctx, &domain.AccessToken{
			Token: "other", Domain: "elsewhere", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
		}))

		tk, err := s.FindToken(ctx, "t1", "elsewhere")
		require.NoError(t, err)
		assert.Nil(t, tk, "token is bound to its slug")

		tk, err = s.FindToken(ctx, "t1", "with-tokens")
		require.NoError(t, err)
		require.NotNil(t, tk)
		assert.Equal(t, now.Add(time.Hour), tk.ExpiresAt)
		assert.True(t, tk.IssuedFor(&domain.Domain{Slug: "with-tokens", CreatedAt: now.Add(-time.Minute)}))
		assert.False(t, tk.IssuedFor(&domain.Domain{Slug: "with-tokens", CreatedAt: now}))

		deleted, err := s.DeleteDomain(ctx, "with-tokens")
		require.NoError(t, err)
		assert.True(t, deleted)
		n, err := s.DeleteTokensByDomain(ctx, "with-tokens")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		tk, err = s.FindToken(ctx, "other", "elsewhere")
		require.NoError(t, err)
		assert.NotNil(t, tk)

		live, err := s.CountLiveTokens(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, live)
	})

	t.Run("count live domains", func(t *testing.T) {
		n, err := s.CountLiveDomains(ctx, now.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Positive(t, n)

		n, err = s.CountLiveDomains(ctx, now.Add(48*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
