package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carryCookies copies Set-Cookie headers of a response into a follow-up request
func carryCookies(rec *httptest.ResponseRecorder, req *http.Request) {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
}

func TestFlashService_AddThenPop(t *testing.T) {
	fs := NewFlashService([]byte("secret"), "/")

	first := httptest.NewRecorder()
	require.NoError(t, fs.Add(first, httptest.NewRequest(http.MethodPost, "/upload-excel", nil), FlashSuccess, "Data updated successfully!"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(first, next)

	rec := httptest.NewRecorder()
	flashes := fs.Pop(rec, next)
	require.Len(t, flashes, 1)
	assert.Equal(t, Flash{Category: FlashSuccess, Message: "Data updated successfully!"}, flashes[0])

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, FlashCookieName, cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestFlashService_Accumulates(t *testing.T) {
	fs := NewFlashService([]byte("secret"), "/")

	rec := httptest.NewRecorder()
	require.NoError(t, fs.Add(rec, httptest.NewRequest(http.MethodPost, "/", nil), FlashError, "No file part"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	carryCookies(rec, req)
	rec2 := httptest.NewRecorder()
	require.NoError(t, fs.Add(rec2, req, FlashError, "No selected file"))

	final := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec2, final)
	flashes := fs.Pop(httptest.NewRecorder(), final)
	require.Len(t, flashes, 2)
	assert.Equal(t, "No file part", flashes[0].Message)
	assert.Equal(t, "No selected file", flashes[1].Message)
}

func TestFlashService_RejectsForeignSignature(t *testing.T) {
	signer := NewFlashService([]byte("one"), "/")
	reader := NewFlashService([]byte("two"), "/")

	rec := httptest.NewRecorder()
	require.NoError(t, signer.Add(rec, httptest.NewRequest(http.MethodGet, "/", nil), FlashSuccess, "hello"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(rec, req)
	assert.Empty(t, reader.Pop(httptest.NewRecorder(), req))
}
