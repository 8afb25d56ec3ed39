package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
)

// memStore mimics the Mongo store: documents survive expiry until swept.
type memStore struct {
	mu      sync.Mutex
	domains map[string]domain.Domain
	tokens  map[string]domain.AccessToken
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{domains: map[string]domain.Domain{}, tokens: map[string]domain.AccessToken{}}
}

var errBoom = errors.New("boom")

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return errBoom
	}
	return nil
}

func (m *memStore) CreateDomain(_ context.Context, d *domain.Domain, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create"); err != nil {
		return err
	}
	if cur, ok := m.domains[d.Slug]; ok && cur.ExpiresAt.After(now) {
		return domain.Errorf(domain.ErrConflict, "Domain already exists")
	}
	m.domains[d.Slug] = *d
	return nil
}

func (m *memStore) FindDomain(_ context.Context, slug string) (*domain.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("find"); err != nil {
		return nil, err
	}
	d, ok := m.domains[slug]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memStore) UpdateDomainContents(_ context.Context, slug string, c domain.Contents) (*domain.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.domains[slug]
	if !ok {
		return nil, nil
	}
	d.Content, d.Meta, d.Files = c.Content, c.Meta, c.Files
	m.domains[slug] = d
	return &d, nil
}

func (m *memStore) DeleteDomain(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.domains[slug]
	delete(m.domains, slug)
	return ok, nil
}

func (m *memStore) tokenCount(slug string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tokens {
		if t.Domain == slug {
			n++
		}
	}
	return n
}

func (m *memStore) sweep(slug string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.domains, slug)
}

func (m *memStore) InsertToken(_ context.Context, t *domain.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Token] = *t
	return nil
}

func (m *memStore) FindToken(_ context.Context, token, slug string) (*domain.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || t.Domain != slug {
		return nil, nil
	}
	return &t, nil
}

func (m *memStore) DeleteTokensByDomain(_ context.Context, slug string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete_tokens"); err != nil {
		return 0, err
	}
	var n int64
	for k, t := range m.tokens {
		if t.Domain == slug {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

type published struct {
	key   string
	event any
}

type recPub struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recPub) Publish(_ context.Context, key string, event any, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key, event})
	return p.err
}

func (p *recPub) Close() error { return nil }

func (p *recPub) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.key)
	}
	return out
}

type fakeObjects struct {
	deletedPrefixes []string
	deleteErr       error
	lastGetTTL      time.Duration
}

func (f *fakeObjects) PresignUpload(_ context.Context, key, contentType string, size int64) (string, error) {
	return "https://s3.test/put/" + key, nil
}

func (f *fakeObjects) DownloadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.lastGetTTL = ttl
	return "https://s3.test/get/" + key, nil
}

func (f *fakeObjects) DeletePrefix(_ context.Context, prefix string) (int, error) {
	f.deletedPrefixes = append(f.deletedPrefixes, prefix)
	return 0, f.deleteErr
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
