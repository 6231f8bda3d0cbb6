package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchCover(t *testing.T) {
	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	data, err := NewClient().FetchCover(context.Background(), srv.URL+"/hqdefault.jpg")
	if err != nil {
		t.Fatalf("FetchCover: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("data = %q", data)
	}
	if gotAgent := <-agents; gotAgent != "bootleg-splitter" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestClient_FetchCoverErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient()
	if _, err := c.FetchCover(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := c.FetchCover(context.Background(), ""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestClient_GetLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 2048))
	}))
	defer srv.Close()

	c := NewClient()
	if _, err := c.Get(context.Background(), srv.URL, 1024); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
	data, err := c.Get(context.Background(), srv.URL, 2048)
	if err != nil || len(data) != 2048 {
		t.Errorf("Get at exact limit: len=%d err=%v", len(data), err)
	}
}
