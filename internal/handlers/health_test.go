package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	rec := doRequest(t, http.HandlerFunc(handlers.Healthz), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	ok := handlers.Readyz(pingerFunc(func(context.Context) error { return nil }))
	assert.Equal(t, http.StatusOK, doRequest(t, ok, http.MethodGet, "/readyz", "").Code)

	down := handlers.Readyz(pingerFunc(func(context.Context) error { return errors.New("no primary") }))
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(t, down, http.MethodGet, "/readyz", "").Code)
}
