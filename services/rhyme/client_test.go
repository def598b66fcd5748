package rhyme

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRhymeAPI serves a Datamuse-style response for any word.
func fakeRhymeAPI(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestFetchUnionsSources(t *testing.T) {
	exact := fakeRhymeAPI(t, `[{"word":"hat","score":300},{"word":"mat","score":100}]`, http.StatusOK)
	defer exact.Close()
	near := fakeRhymeAPI(t, `[{"word":"sat","score":2500},{"word":"splat","score":1999}]`, http.StatusOK)
	defer near.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: exact.URL + "/?w=", Exact: true},
		{Name: "near", URL: near.URL + "/?w=", Exact: false},
	}))

	set, err := client.Fetch(context.Background(), "cat")
	require.NoError(t, err)

	// Exact results pass regardless of score; near results below the
	// 2000 floor are dropped.
	assert.Contains(t, set, "hat")
	assert.Contains(t, set, "mat")
	assert.Contains(t, set, "sat")
	assert.NotContains(t, set, "splat")
}

func TestFetchSkipsInvalidWords(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: srv.URL + "/?w=", Exact: true},
	}))

	for _, word := range []string{"", "h4t", "day&rel_rhy=x", "12"} {
		set, err := client.Fetch(context.Background(), word)
		require.NoError(t, err)
		assert.Empty(t, set)
	}
	assert.Zero(t, hits, "invalid words must not reach the network")
}

func TestFetchFailsOnBadStatus(t *testing.T) {
	srv := fakeRhymeAPI(t, `internal error`, http.StatusInternalServerError)
	defer srv.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: srv.URL + "/?w=", Exact: true},
	}))

	_, err := client.Fetch(context.Background(), "cat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable), "expected ErrUnavailable, got %v", err)
}

func TestFetchFailsWholeCallOnLaterSourceFailure(t *testing.T) {
	good := fakeRhymeAPI(t, `[{"word":"hat","score":300}]`, http.StatusOK)
	defer good.Close()
	bad := fakeRhymeAPI(t, `oops`, http.StatusBadGateway)
	defer bad.Close()

	client := NewClient(WithSources([]Source{
		{Name: "good", URL: good.URL + "/?w=", Exact: true},
		{Name: "bad", URL: bad.URL + "/?w=", Exact: false},
	}))

	set, err := client.Fetch(context.Background(), "cat")
	require.Error(t, err)
	assert.Nil(t, set, "partial results must not leak out of a failed call")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFetchFailsOnMalformedBody(t *testing.T) {
	srv := fakeRhymeAPI(t, `{"not":"a list"}`, http.StatusOK)
	defer srv.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: srv.URL + "/?w=", Exact: true},
	}))

	_, err := client.Fetch(context.Background(), "cat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	srv := fakeRhymeAPI(t, `[]`, http.StatusOK)
	defer srv.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: srv.URL + "/?w=", Exact: true},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, "cat")
	require.Error(t, err)
}

func TestExactSourcesIgnoreScoreFloor(t *testing.T) {
	exact := fakeRhymeAPI(t, `[{"word":"thee","score":0},{"word":"sea"}]`, http.StatusOK)
	defer exact.Close()

	client := NewClient(WithSources([]Source{
		{Name: "exact", URL: exact.URL + "/?w=", Exact: true},
	}))

	set, err := client.Fetch(context.Background(), "be")
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestDatamuseSourceShape(t *testing.T) {
	sources := DatamuseSources()
	require.Len(t, sources, 2)
	assert.True(t, sources[0].Exact != sources[1].Exact,
		"defaults should include one exact and one near source")
}
