package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gacetaSearchPage = `<html><body>
<div class="resultado">
  <h3><a href="/normas/lot">Ley Orgánica del Trabajo</a></h3>
  <p>Gaceta Oficial N° 6.076 Extraordinario del 7 de mayo de 2012. Vigente.</p>
</div>
</body></html>`

// newSiteServer serves a gazette search page and counts requests to it.
func newSiteServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/-/gacetas" {
			hits.Add(1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(gacetaSearchPage))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("searches the gazette through the full pipeline", func(t *testing.T) {
		t.Parallel()

		srv, hits := newSiteServer(t)
		m := newMain(t)
		args := []string{"--gaceta-url", srv.URL, "--tsj-url", srv.URL, "--gaceta-rate-limit", "0s",
			"gaceta", "search", "trabajo"}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), args, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Ley Orgánica del Trabajo")
		assert.Contains(t, stdout.String(), `"gacetaNumero": "6.076"`)
		assert.Contains(t, stdout.String(), srv.URL+"/normas/lot")
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("serves a repeated search from the cache", func(t *testing.T) {
		t.Parallel()

		srv, hits := newSiteServer(t)
		m := newMain(t)
		args := []string{"--gaceta-url", srv.URL, "--gaceta-rate-limit", "0s", "gaceta", "search", "trabajo"}

		require.NoError(t, m.Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))
		stdout := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), args, stdout, &bytes.Buffer{}))

		assert.Contains(t, stdout.String(), `"cached": true`)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("archives results and lists them in history", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSiteServer(t)
		m := newMain(t)
		db := filepath.Join(t.TempDir(), "archive.db")

		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"--gaceta-url", srv.URL, "--gaceta-rate-limit", "0s", "--db", db, "--archive",
			"gaceta", "search", "trabajo"}, &bytes.Buffer{}, stderr)
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "archived 1 new or changed records")

		stdout := &bytes.Buffer{}
		err = m.Run(context.Background(), []string{"--db", db, "history", "--kind", "norm"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), srv.URL+"/normas/lot")
	})

	t.Run("reports an empty result when the site is down", func(t *testing.T) {
		t.Parallel()

		srv, _ := newSiteServer(t)
		srv.Close()
		m := newMain(t)

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"--gaceta-url", srv.URL, "--gaceta-rate-limit", "0s", "--max-retries", "1",
			"gaceta", "search", "trabajo"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"totalResults": 0`)
		assert.Contains(t, stdout.String(), `"records": []`)
	})
}

func TestMain_Run_PerSourceRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("spaces gazette requests by the gazette interval", func(t *testing.T) {
		t.Parallel()

		const interval = 300 * time.Millisecond

		var mu sync.Mutex
		var times []time.Time
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
			if r.URL.Path == "/-/gacetas" {
				_, _ = w.Write([]byte(gacetaSearchPage))
				return
			}
			http.NotFound(w, r)
		}))
		t.Cleanup(srv.Close)

		// robots.txt and the search page are two requests to the same source.
		args := []string{"--gaceta-url", srv.URL, "--gaceta-rate-limit", interval.String(), "--tsj-rate-limit", "0s",
			"gaceta", "search", "trabajo"}
		err := newMain(t).Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, times, 2)
		assert.GreaterOrEqual(t, times[1].Sub(times[0]), interval-10*time.Millisecond)
	})

	t.Run("reports each configured interval in status", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newMain(t).Run(context.Background(), []string{"--gaceta-rate-limit", "3s", "--tsj-rate-limit", "1500ms", "status"},
			stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"rateLimitSeconds": 3`)
		assert.Contains(t, stdout.String(), `"rateLimitSeconds": 1.5`)
	})
}
