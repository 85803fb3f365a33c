package flashapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashList_QueryAndHeaders(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"data":[
			{"id":"20260827", "time":"2026-08-27 10:00:00", "data":{"content":"<b>body</b>", "lock":0}},
			{"id":"20260826", "data":{"content":"older"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "app-id", "1.0.0", "https://example.com")
	flashes, err := client.FlashList(context.Background(), "20260827")
	require.NoError(t, err)
	require.Len(t, flashes, 2)

	assert.Equal(t, "20260827", flashes[0].ID)
	assert.Equal(t, "<b>body</b>", flashes[0].Data.Content)

	assert.Equal(t, "20260827", gotReq.URL.Query().Get("max_id"))
	assert.Equal(t, "-8200", gotReq.URL.Query().Get("channel"))
	assert.Equal(t, "1", gotReq.URL.Query().Get("vip"))
	assert.Equal(t, "app-id", gotReq.Header.Get("x-app-id"))
	assert.Equal(t, "1.0.0", gotReq.Header.Get("x-version"))
	assert.Equal(t, "https://example.com", gotReq.Header.Get("Origin"))
}

func TestFlashList_DropsMalformedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"id":"good"},
			"not an object",
			{"id":"also-good"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", "", "")
	flashes, err := client.FlashList(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, flashes, 2)
	assert.Equal(t, "good", flashes[0].ID)
	assert.Equal(t, "also-good", flashes[1].ID)
}

func TestFlashList_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "", "", "")
	_, err := client.FlashList(context.Background(), "x")
	assert.Error(t, err)
}
