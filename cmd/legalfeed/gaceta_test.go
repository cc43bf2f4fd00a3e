package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/legalfeed"
	main "github.com/fwojciec/legalfeed/cmd/legalfeed"
	"github.com/fwojciec/legalfeed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps(norms legalfeed.NormService, decisions legalfeed.DecisionService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:       context.Background(),
		Stdout:    stdout,
		Stderr:    stderr,
		Norms:     norms,
		Decisions: decisions,
	}, stdout, stderr
}

func TestGacetaSearchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes filters and prints norms", func(t *testing.T) {
		t.Parallel()

		var gotFilter legalfeed.NormFilter
		var gotOpts legalfeed.SearchOptions
		norms := &mock.NormService{
			SearchNormsFn: func(_ context.Context, query string, filter legalfeed.NormFilter, opts legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedNorm] {
				gotFilter = filter
				gotOpts = opts
				return &legalfeed.SearchResult[*legalfeed.ScrapedNorm]{
					Query:        query,
					TotalResults: 1,
					Records: []*legalfeed.ScrapedNorm{{
						Name:         "Ley Orgánica del Trabajo",
						Type:         legalfeed.NormLeyOrganica,
						GacetaNumber: "6.076",
						GacetaType:   legalfeed.GacetaExtraordinaria,
						GacetaDate:   "07-05-2012",
						Status:       legalfeed.NormVigente,
					}},
				}
			},
		}
		deps, stdout, _ := newDeps(norms, nil)

		cmd := &main.GacetaSearchCmd{Query: "trabajo", Type: "ley_organica", From: "01-01-2012", Max: 5, NoCache: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, legalfeed.NormLeyOrganica, gotFilter.Type)
		assert.Equal(t, "01-01-2012", gotFilter.DateFrom)
		assert.Equal(t, 5, gotOpts.MaxResults)
		assert.False(t, gotOpts.UseCache)
		output := stdout.String()
		assert.Contains(t, output, `"query": "trabajo"`)
		assert.Contains(t, output, `"nombre": "Ley Orgánica del Trabajo"`)
		assert.Contains(t, output, `"gacetaNumero": "6.076"`)
		assert.Contains(t, output, `"gacetaTipo": "extraordinaria"`)
	})

	t.Run("rejects unknown norm type", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(&mock.NormService{}, nil)

		err := (&main.GacetaSearchCmd{Query: "x", Type: "tratado"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, legalfeed.EINVALID, legalfeed.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown norm type")
	})

	t.Run("archives results when an archive is configured", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			SearchNormsFn: func(_ context.Context, query string, _ legalfeed.NormFilter, _ legalfeed.SearchOptions) *legalfeed.SearchResult[*legalfeed.ScrapedNorm] {
				return &legalfeed.SearchResult[*legalfeed.ScrapedNorm]{
					Query:   query,
					Records: []*legalfeed.ScrapedNorm{{Name: "Código Civil", URL: "http://x/cc"}},
				}
			},
		}
		var archived []*legalfeed.ScrapedNorm
		deps, _, stderr := newDeps(norms, nil)
		deps.Archive = &mock.Archive{
			ArchiveNormsFn: func(_ context.Context, n []*legalfeed.ScrapedNorm) (int, error) {
				archived = n
				return len(n), nil
			},
		}

		err := (&main.GacetaSearchCmd{Query: "codigo"}).Run(deps)

		require.NoError(t, err)
		require.Len(t, archived, 1)
		assert.Contains(t, stderr.String(), "archived 1")
	})
}

func TestGacetaGetCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the issue", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			FindGacetaFn: func(_ context.Context, numero string, typ legalfeed.GacetaType) (*legalfeed.GacetaEntry, bool) {
				assert.Equal(t, "6152", numero)
				assert.Equal(t, legalfeed.GacetaExtraordinaria, typ)
				return &legalfeed.GacetaEntry{Number: "6.152", Type: typ, Date: "18-03-2024", PDFURL: "http://x/6152.pdf"}, true
			},
		}
		deps, stdout, _ := newDeps(norms, nil)

		err := (&main.GacetaGetCmd{Number: "6152", Type: "extraordinaria"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"numero": "6.152"`)
		assert.Contains(t, stdout.String(), `"fecha": "18-03-2024"`)
		assert.Contains(t, stdout.String(), `"pdfUrl": "http://x/6152.pdf"`)
	})

	t.Run("returns not found", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			FindGacetaFn: func(context.Context, string, legalfeed.GacetaType) (*legalfeed.GacetaEntry, bool) {
				return nil, false
			},
		}
		deps, _, stderr := newDeps(norms, nil)

		err := (&main.GacetaGetCmd{Number: "1"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, legalfeed.ENOTFOUND, legalfeed.ErrorCode(err))
		assert.Contains(t, stderr.String(), "gaceta 1 not found")
	})
}

func TestGacetaRecentCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints undated issues with an empty date", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			RecentGacetasFn: func(_ context.Context, typ legalfeed.GacetaType, days, max int) []*legalfeed.GacetaEntry {
				assert.Equal(t, 7, days)
				assert.Equal(t, 3, max)
				return []*legalfeed.GacetaEntry{{Number: "42.860", Type: legalfeed.GacetaOrdinaria}}
			},
		}
		deps, stdout, _ := newDeps(norms, nil)

		err := (&main.GacetaRecentCmd{Days: 7, Max: 3}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"numero": "42.860"`)
		assert.Contains(t, stdout.String(), `"fecha": ""`)
	})

	t.Run("prints an empty list when nothing was published", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			RecentGacetasFn: func(context.Context, legalfeed.GacetaType, int, int) []*legalfeed.GacetaEntry {
				return []*legalfeed.GacetaEntry{}
			},
		}
		deps, stdout, _ := newDeps(norms, nil)

		err := (&main.GacetaRecentCmd{Days: 30, Max: 20}).Run(deps)

		require.NoError(t, err)
		assert.JSONEq(t, "[]", stdout.String())
	})
}

func TestGacetaVerifyCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the verdict", func(t *testing.T) {
		t.Parallel()

		norms := &mock.NormService{
			VerifyNormFn: func(_ context.Context, name, numero, fecha string) *legalfeed.Verification {
				return &legalfeed.Verification{
					Verified:   true,
					Name:       name,
					Matches:    []legalfeed.NormMatch{{Name: name, GacetaNumber: numero, Score: 0.8}},
					Confidence: 0.8,
					Message:    "Norma verificada con alta confianza (80%)",
				}
			},
		}
		deps, stdout, _ := newDeps(norms, nil)

		err := (&main.GacetaVerifyCmd{Name: "Ley Orgánica del Trabajo", Number: "6.076"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"verified": true`)
		assert.Contains(t, stdout.String(), `"confidence": 0.8`)
	})
}
