package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	api "github.com/mallikarjuna-sindiri/sendy/internal/http"
	"github.com/mallikarjuna-sindiri/sendy/internal/limiter"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/queue"
	"github.com/mallikarjuna-sindiri/sendy/internal/repo"
	"github.com/mallikarjuna-sindiri/sendy/internal/service"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Store  *repo.Store
	Svc    *service.DomainService
	Router *gin.Engine
}

type envOption func(*api.RouterOptions)

func withUnlockLimit(n int) envOption {
	return func(o *api.RouterOptions) { o.Unlock = limiter.NewLocal(n, time.Minute) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err, "mongo container")

	uri, err := mc.ConnectionString(ctx)
	require.NoError(t, err, "mongo uri")

	_, err = log.Init(true)
	require.NoError(t, err)

	store, err := repo.NewStore(ctx, uri, "sendy_test")
	require.NoError(t, err, "store")
	require.NoError(t, store.EnsureIndexes(ctx))

	svc := service.New(store, store, queue.NewNoop(), service.Options{
		TokenTTL:        time.Hour,
		MaxContentBytes: 1 << 20,
		MaxFiles:        5,
		MaxFileBytes:    10 << 20,
		BcryptCost:      bcrypt.MinCost,
	})

	ro := api.RouterOptions{RequestTimeout: 10 * time.Second}
	for _, o := range opts {
		o(&ro)
	}

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(api.NewHandler(svc, store, time.Hour), ro)

	env := &testEnv{T: t, Ctx: ctx, Mongo: mc, Store: store, Svc: svc, Router: r}
	t.Cleanup(env.Close)
	return env
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = testcontainers.TerminateContainer(e.Mongo)
	}
}

func (e *testEnv) do(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	return serve(e.Router, method, path, body, hdr)
}

func serve(r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func token(tok string) map[string]string {
	return map[string]string{api.HeaderAccessToken: tok}
}
