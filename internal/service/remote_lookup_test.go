package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteSource(t *testing.T, handler http.HandlerFunc) *RemoteRecordSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteRecordSource(srv.URL, zerolog.Nop())
}

func TestRemoteRecordSourceLookup(t *testing.T) {
	src := newRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "22Z301", r.URL.Query().Get("rollNo"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"name":"Asha","rollNo":"22Z301","year":"4th Year","dept":"CSE","place":"Winner - 1st Prize"}}`))
	})

	rec, err := src.Lookup(context.Background(), "22Z301")
	require.NoError(t, err)
	assert.Equal(t, "Asha", rec.Name)
	assert.Equal(t, "22Z301", rec.RollNo)
	assert.Equal(t, "Winner - 1st Prize", rec.Place)
}

func TestRemoteRecordSourceNotFound(t *testing.T) {
	src := newRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"no such id"}`))
	})

	_, err := src.Lookup(context.Background(), "99X999")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRemoteRecordSourceServerError(t *testing.T) {
	src := newRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := src.Lookup(context.Background(), "22Z301")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}

func TestRemoteRecordSourceMalformedBody(t *testing.T) {
	src := newRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":tru`))
	})

	_, err := src.Lookup(context.Background(), "22Z301")
	assert.ErrorIs(t, err, ErrRecordInvalid)
}

func TestRemoteRecordSourceIncompleteRecord(t *testing.T) {
	src := newRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"rollNo":"22Z301"}}`))
	})

	_, err := src.Lookup(context.Background(), "22Z301")
	assert.ErrorIs(t, err, ErrRecordInvalid)
}

func TestRemoteRecordSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	src := NewRemoteRecordSource(srv.URL, zerolog.Nop())

	_, err := src.Lookup(context.Background(), "22Z301")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}
