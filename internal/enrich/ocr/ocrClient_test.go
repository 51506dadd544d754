package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "jpeg-bytes" {
			t.Errorf("server received %q, want the raw image bytes", body)
		}
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("content type = %q, want image/jpeg", ct)
		}
		fmt.Fprint(w, `{"text": "recognized page text"}`)
	}))
	defer srv.Close()

	client := NewTestClient(srv.URL, time.Second, srv.Client())
	text, err := client.Recognize(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "recognized page text" {
		t.Errorf("text = %q", text)
	}
}

func TestRecognize_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTestClient(srv.URL, time.Second, srv.Client())
	_, err := client.Recognize(context.Background(), []byte("img"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRecognize_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewTestClient(srv.URL, 20*time.Millisecond, srv.Client())
	_, err := client.Recognize(context.Background(), []byte("img"))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestRecognize_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	client := NewTestClient(srv.URL, time.Second, srv.Client())
	_, err := client.Recognize(context.Background(), []byte("img"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
