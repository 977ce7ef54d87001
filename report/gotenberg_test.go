package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func pdfBody(n int) []byte {
	body := bytes.Repeat([]byte("x"), n)
	copy(body, "%PDF-1.7")
	return body
}

func TestRenderHTMLSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		require.Equal(t, paperWidthA4, r.FormValue("paperWidth"))
		require.Equal(t, paperHeightA4, r.FormValue("paperHeight"))
		_, _ = w.Write(pdfBody(4096))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	data, err := client.RenderHTML(context.Background(), "<html><body>ok</body></html>")
	require.NoError(t, err)
	require.Len(t, data, 4096)
}

func TestRenderHTMLClientErrorIsFatal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RenderHTML(context.Background(), "<html></html>")
	require.ErrorIs(t, err, ErrRenderInvalidResponse)
	require.Equal(t, 1, calls, "4xx responses must not be retried")
}

func TestRenderHTMLRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(pdfBody(2048))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	data, err := client.RenderHTML(context.Background(), "<html></html>")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, 2, calls)
}

func TestRenderHTMLRejectsTinyDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.RenderHTML(context.Background(), "<html></html>")
	require.ErrorIs(t, err, ErrRenderTooSmall)
}

func TestRenderHTMLRequiresEndpoint(t *testing.T) {
	client := NewClient("   ")
	_, err := client.RenderHTML(context.Background(), "<html></html>")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrRenderInvalidResponse))
}
