package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"country_name":"Germany","city":"Berlin"}`))
	}))
	defer srv.Close()

	loc, err := NewClient(srv.URL).Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, Location{Country: "Germany", City: "Berlin"}, loc)
}

func TestLookupSkipsPrivateAddresses(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	for _, ip := range []string{"", "not-an-ip", "127.0.0.1", "10.1.2.3", "192.168.0.5", "::1"} {
		_, err := c.Lookup(context.Background(), ip)
		assert.ErrorIs(t, err, ErrNotRoutable, ip)
	}
}

func TestLookupFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/1.1.1.1/json/":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/9.9.9.9/json/":
			_, _ = w.Write([]byte(`{"error":true,"reason":"RateLimited"}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for _, ip := range []string{"1.1.1.1", "9.9.9.9", "8.8.4.4"} {
		_, err := c.Lookup(context.Background(), ip)
		assert.Error(t, err, ip)
	}
}

func TestLookupHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL).Lookup(ctx, "8.8.8.8")
	assert.Error(t, err)
}

func TestCachedResolverWithoutRedisIsPassthrough(t *testing.T) {
	c := NewClient("http://example.invalid")
	assert.Same(t, Resolver(c), NewCachedResolver(c, nil, time.Hour, zap.NewNop()))
}
