package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mallikarjuna-sindiri/sendy/internal/config"
	"github.com/mallikarjuna-sindiri/sendy/internal/domain"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/metrics"
	"github.com/mallikarjuna-sindiri/sendy/internal/queue"
	"github.com/mallikarjuna-sindiri/sendy/internal/security"
	"github.com/mallikarjuna-sindiri/sendy/internal/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const maxPresignedGet = 7 * 24 * time.Hour

type DomainRepository interface {
	// CreateDomain must report domain.ErrConflict when a live domain exists.
	CreateDomain(ctx context.Context, d *domain.Domain, now time.Time) error
	FindDomain(ctx context.Context, slug string) (*domain.Domain, error)
	UpdateDomainContents(ctx context.Context, slug string, c domain.Contents) (*domain.Domain, error)
	DeleteDomain(ctx context.Context, slug string) (bool, error)
}

type TokenRepository interface {
	InsertToken(ctx context.Context, t *domain.AccessToken) error
	FindToken(ctx context.Context, token, slug string) (*domain.AccessToken, error)
	DeleteTokensByDomain(ctx context.Context, slug string) (int64, error)
}

type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, size int64) (string, error)
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

type Options struct {
	TokenTTL        time.Duration
	MaxDuration     time.Duration // 0 = unbounded
	DefaultContent  string
	MaxContentBytes int
	MaxFiles        int
	MaxFileBytes    int64
	BcryptCost      int
}

func OptionsFrom(cfg config.Config) Options {
	return Options{
		TokenTTL:        cfg.TokenTTL,
		MaxDuration:     cfg.MaxDuration,
		DefaultContent:  cfg.DefaultContent,
		MaxContentBytes: cfg.MaxContentBytes,
		MaxFiles:        cfg.MaxFiles,
		MaxFileBytes:    cfg.MaxFileBytes,
		BcryptCost:      cfg.BcryptCost,
	}
}

// DomainService owns the domain and access token lifecycle. It keeps no
// state between calls; the store's single-document atomicity is all it uses.
type DomainService struct {
	domains DomainRepository
	tokens  TokenRepository
	objects ObjectStore
	events  queue.Publisher
	opts    Options
	clock   func() time.Time
}

func New(domains DomainRepository, tokens TokenRepository, events queue.Publisher, opts Options) *DomainService {
	if events == nil {
		events = queue.NewNoop()
	}
	return &DomainService{
		domains: domains,
		tokens:  tokens,
		events:  events,
		opts:    opts,
		clock:   time.Now,
	}
}

// WithObjectStore enables attachment uploads.
func (s *DomainService) WithObjectStore(o ObjectStore) *DomainService {
	s.objects = o
	return s
}

func (s *DomainService) WithClock(now func() time.Time) *DomainService {
	s.clock = now
	return s
}

// Mongo keeps milliseconds; truncating keeps returned views equal to stored ones.
func (s *DomainService) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func (s *DomainService) Create(ctx context.Context, slug, password string, duration time.Duration) (*domain.Public, error) {
	slug, err := domain.NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	if duration < time.Minute {
		return nil, domain.Errorf(domain.ErrInvalidInput, "duration_ms must be at least 60000")
	}
	if s.opts.MaxDuration > 0 && duration > s.opts.MaxDuration {
		return nil, domain.Errorf(domain.ErrInvalidInput,
			fmt.Sprintf("duration_ms must be at most %d", s.opts.MaxDuration.Milliseconds()))
	}

	now := s.now()
	d := &domain.Domain{
		Slug:      slug,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
		Content:   s.opts.DefaultContent,
		Meta:      domain.DefaultMeta(),
		Files:     []domain.FileMeta{},
	}
	if password != "" {
		if d.PasswordHash, err = security.HashPassword(password, s.opts.BcryptCost); err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
	}

	if err := s.domains.CreateDomain(ctx, d, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, errors.Wrap(err, "create domain")
	}

	// a recreated slug starts without the previous lifetime's tokens
	if n, err := s.tokens.DeleteTokensByDomain(ctx, d.Slug); err != nil {
		log.FromContext(ctx).Warn("stale token cleanup failed", zap.String("domain", d.Slug), zap.Error(err))
	} else if n > 0 {
		log.FromContext(ctx).Info("revoked stale tokens", zap.String("domain", d.Slug), zap.Int64("count", n))
	}

	metrics.DomainsCreated.Inc()
	s.publish(ctx, queue.KeyDomainCreated, queue.DomainCreated{
		Domain: d.Slug, Locked: d.Locked(), ExpiresAt: d.ExpiresAt,
	})
	return d.Public(), nil
}

func (s *DomainService) Unlock(ctx context.Context, slug, password string) (*domain.AccessToken, error) {
	d, err := s.loadLive(ctx, slug)
	if err != nil {
		return nil, err
	}
	if d.Locked() && !security.CheckPassword(d.PasswordHash, password) {
		metrics.UnlockAttempts.WithLabelValues("bad_password").Inc()
		return nil, domain.Errorf(domain.ErrUnauthorized, "Incorrect password")
	}

	tok, err := security.NewAccessToken()
	if err != nil {
		return nil, errors.Wrap(err, "generate token")
	}
	now := s.now()
	t := &domain.AccessToken{
		Token:           tok,
		Domain:          d.Slug,
		DomainCreatedAt: d.CreatedAt,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.opts.TokenTTL),
	}
	if err := s.tokens.InsertToken(ctx, t); err != nil {
		return nil, errors.Wrap(err, "insert token")
	}

	metrics.UnlockAttempts.WithLabelValues("ok").Inc()
	s.publish(ctx, queue.KeyDomainUnlocked, queue.DomainUnlocked{
		Domain: d.Slug, TokenFingerprint: security.Fingerprint(tok), ExpiresAt: t.ExpiresAt,
	})
	return t, nil
}

func (s *DomainService) Get(ctx context.Context, slug, token string) (*domain.Public, error) {
	d, err := s.loadLive(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return nil, err
	}
	return d.Public(), nil
}

// Update replaces content, meta and files wholesale.
func (s *DomainService) Update(ctx context.Context, slug, token string, c domain.Contents) (*domain.Public, error) {
	d, err := s.loadLive(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return nil, err
	}
	if c, err = s.checkContents(c); err != nil {
		return nil, err
	}

	updated, err := s.domains.UpdateDomainContents(ctx, d.Slug, c)
	if err != nil {
		return nil, errors.Wrap(err, "update domain")
	}
	if updated == nil {
		// swept between the read and the write
		return nil, domain.Errorf(domain.ErrNotFound, "Domain not found")
	}

	s.publish(ctx, queue.KeyDomainUpdated, queue.DomainUpdated{
		Domain: d.Slug, ContentBytes: len(c.Content), Files: len(c.Files),
	})
	return updated.Public(), nil
}

// Delete checks access without checking expiry first: an expired but
// unswept locked domain still needs a token to be deleted.
func (s *DomainService) Delete(ctx context.Context, slug, token string) error {
	slug, err := domain.NormalizeSlug(slug)
	if err != nil {
		return err
	}
	d, err := s.domains.FindDomain(ctx, slug)
	if err != nil {
		return errors.Wrap(err, "find domain")
	}
	if d == nil {
		return domain.Errorf(domain.ErrNotFound, "Domain not found")
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return err
	}

	deleted, err := s.domains.DeleteDomain(ctx, slug)
	if err != nil {
		return errors.Wrap(err, "delete domain")
	}
	revoked, err := s.tokens.DeleteTokensByDomain(ctx, slug)
	if err != nil {
		return errors.Wrap(err, "delete tokens")
	}
	if !deleted {
		// swept or deleted by another request after the read
		return domain.Errorf(domain.ErrNotFound, "Domain not found")
	}
	if s.objects != nil {
		if n, err := s.objects.DeletePrefix(ctx, slug+"/"); err != nil {
			log.FromContext(ctx).Warn("attachment cleanup failed",
				zap.String("domain", slug), zap.Int("deleted", n), zap.Error(err))
		}
	}

	metrics.DomainsDeleted.Inc()
	s.publish(ctx, queue.KeyDomainDeleted, queue.DomainDeleted{Domain: slug, TokensRevoked: revoked})
	return nil
}

// PresignUpload issues object store URLs for one attachment. The client
// uploads the bytes itself and then records the file through Update.
func (s *DomainService) PresignUpload(ctx context.Context, slug, token string, req domain.UploadRequest) (*domain.UploadTicket, error) {
	d, err := s.loadLive(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, d, token); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "file name is required")
	}
	if req.Size < 0 || req.Size > s.opts.MaxFileBytes {
		return nil, domain.Errorf(domain.ErrInvalidInput,
			fmt.Sprintf("file size must be between 0 and %d bytes", s.opts.MaxFileBytes))
	}
	if s.objects == nil {
		return nil, domain.Errorf(domain.ErrUnavailable, "file uploads are not configured")
	}

	now := s.now()
	id := uuid.NewString()
	key := storage.ObjectKey(d.Slug, id, req.Name)

	uploadURL, err := s.objects.PresignUpload(ctx, key, req.Type, req.Size)
	if err != nil {
		return nil, errors.Wrap(err, "presign upload")
	}
	ttl := d.ExpiresAt.Sub(now)
	if ttl > maxPresignedGet {
		ttl = maxPresignedGet
	}
	downloadURL, err := s.objects.DownloadURL(ctx, key, ttl)
	if err != nil {
		return nil, errors.Wrap(err, "presign download")
	}

	return &domain.UploadTicket{
		ID:         id,
		Name:       req.Name,
		Size:       req.Size,
		Type:       req.Type,
		URL:        downloadURL,
		UploadURL:  uploadURL,
		UploadedAt: now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// loadLive returns a domain that exists and has not expired.
func (s *DomainService) loadLive(ctx context.Context, slug string) (*domain.Domain, error) {
	slug, err := domain.NormalizeSlug(slug)
	if err != nil {
		return nil, err
	}
	d, err := s.domains.FindDomain(ctx, slug)
	if err != nil {
		return nil, errors.Wrap(err, "find domain")
	}
	if d == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "Domain not found")
	}
	if !d.Live(s.now()) {
		return nil, domain.Errorf(domain.ErrGone, "Domain expired")
	}
	return d, nil
}

// authorize lets anyone into an unlocked domain; a locked one needs a
// live token bound to its slug.
func (s *DomainService) authorize(ctx context.Context, d *domain.Domain, token string) error {
	if !d.Locked() {
		return nil
	}
	if token == "" {
		return domain.Errorf(domain.ErrUnauthorized, "Access token required")
	}
	t, err := s.tokens.FindToken(ctx, token, d.Slug)
	if err != nil {
		return errors.Wrap(err, "find token")
	}
	if t == nil || !t.IssuedFor(d) {
		return domain.Errorf(domain.ErrUnauthorized, "Invalid access token")
	}
	if !t.Valid(d, s.now()) {
		return domain.Errorf(domain.ErrUnauthorized, "Access token expired")
	}
	return nil
}

func (s *DomainService) checkContents(c domain.Contents) (domain.Contents, error) {
	if s.opts.MaxContentBytes > 0 && len(c.Content) > s.opts.MaxContentBytes {
		return c, domain.Errorf(domain.ErrInvalidInput,
			fmt.Sprintf("content exceeds %d bytes", s.opts.MaxContentBytes))
	}
	if s.opts.MaxFiles > 0 && len(c.Files) > s.opts.MaxFiles {
		return c, domain.Errorf(domain.ErrInvalidInput,
			fmt.Sprintf("at most %d files are allowed", s.opts.MaxFiles))
	}
	files := make([]domain.FileMeta, 0, len(c.Files))
	for _, f := range c.Files {
		if f.ID == "" || f.Name == "" || f.Size < 0 {
			return c, domain.Errorf(domain.ErrInvalidInput, "files need an id, a name and a non-negative size")
		}
		if f.UploadedAt.IsZero() {
			f.UploadedAt = s.now()
		}
		f.UploadedAt = f.UploadedAt.UTC().Truncate(time.Millisecond)
		files = append(files, f)
	}
	c.Files = files
	return c, nil
}

func (s *DomainService) publish(ctx context.Context, key string, event any) {
	if err := s.events.Publish(ctx, key, event, log.RequestID(ctx)); err != nil {
		log.FromContext(ctx).Warn("publish event failed", zap.String("key", key), zap.Error(err))
	}
}
