package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUpload(t *testing.T) {
	var gotPath, gotContentType, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, "key", "agreements", srv.Client())
	if err := client.Upload(context.Background(), "agreement_jane_doe_1.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotPath != "/storage/v1/object/agreements/agreement_jane_doe_1.pdf" {
		t.Fatalf("unexpected upload path %q", gotPath)
	}
	if gotContentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotUpsert != "true" {
		t.Fatal("expected overwrite-if-exists upload")
	}
	if string(gotBody) != "%PDF-1.4" {
		t.Fatalf("body mismatch: %q", gotBody)
	}
}

func TestUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket missing", http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, "key", "agreements", srv.Client())
	err := client.Upload(context.Background(), "x.pdf", []byte("data"))
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status-carrying error, got %v", err)
	}
}

func TestPublicAndDownloadURLs(t *testing.T) {
	client := New("https://store.example.com/", "key", "agreements", nil)

	public := client.PublicURL("file.pdf")
	if public != "https://store.example.com/storage/v1/object/public/agreements/file.pdf" {
		t.Fatalf("unexpected public URL %q", public)
	}
	download := client.DownloadURL("file.pdf")
	if !strings.HasPrefix(download, public) || !strings.Contains(download, "download=file.pdf") {
		t.Fatalf("unexpected download URL %q", download)
	}
}
