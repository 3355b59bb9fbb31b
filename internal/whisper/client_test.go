package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTranscribe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("expected model whisper-1, got %q", r.FormValue("model"))
		}
		if r.FormValue("response_format") != "json" {
			t.Errorf("expected response_format json, got %q", r.FormValue("response_format"))
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "RIFF-audio" {
			t.Errorf("unexpected audio bytes %q", data)
		}
		if hdr.Filename != "round.wav" {
			t.Errorf("expected filename round.wav, got %q", hdr.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "  First speaker, pro side.  "})
	}))
	defer server.Close()

	c := NewClient("test-key", server.URL, "", time.Second)
	text, err := c.Transcribe(context.Background(), "/tmp/uploads/round.wav", strings.NewReader("RIFF-audio"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "First speaker, pro side." {
		t.Errorf("unexpected transcript %q", text)
	}
}

func TestTranscribe_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"   "}`))
	}))
	defer server.Close()

	c := NewClient("", server.URL, "", time.Second)
	if _, err := c.Transcribe(context.Background(), "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestTranscribe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key"}}`))
	}))
	defer server.Close()

	c := NewClient("bad", server.URL, "", time.Second)
	_, err := c.Transcribe(context.Background(), "a.mp3", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("expected status text in error, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestTranscribe_ReadAudioError(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient("", server.URL, "", time.Second)
	_, err := c.Transcribe(context.Background(), "a.mp3", failingReader{})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected audio read error, got %v", err)
	}
	if called {
		t.Error("request sent despite multipart build failure")
	}
}
