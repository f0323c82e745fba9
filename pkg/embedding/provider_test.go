package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var req geminiEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.TaskType != "RETRIEVAL_QUERY" {
			t.Errorf("task_type = %q", req.TaskType)
		}
		if len(req.Content.Parts) != 1 || req.Content.Parts[0].Text != "wheat irrigation" {
			t.Errorf("parts = %+v", req.Content.Parts)
		}
		w.Write([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("test-key").(*GeminiProvider)
	p.BaseURL = srv.URL

	values, err := p.Generate(context.Background(), "wheat irrigation", "RETRIEVAL_QUERY")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(values) != 3 || values[1] != 0.2 {
		t.Errorf("values = %v", values)
	}
}

func TestGeminiEmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":{"values":[]}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("test-key").(*GeminiProvider)
	p.BaseURL = srv.URL

	if _, err := p.Generate(context.Background(), "anything", ""); err == nil {
		t.Fatal("expected an error for an empty embedding")
	}
}

func TestOllamaGenerateNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[3.0,4.0]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "nomic-embed-text")
	values, err := p.Generate(context.Background(), "wheat irrigation", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// [3,4] has magnitude 5; the unit vector is [0.6,0.8].
	if len(values) != 2 || math.Abs(float64(values[0])-0.6) > 1e-6 || math.Abs(float64(values[1])-0.8) > 1e-6 {
		t.Errorf("values = %v, want normalized [0.6 0.8]", values)
	}

	var magnitude float64
	for _, v := range values {
		magnitude += float64(v) * float64(v)
	}
	if math.Abs(magnitude-1) > 1e-6 {
		t.Errorf("squared magnitude = %v, want 1", magnitude)
	}
}

func TestOllamaProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "nomic-embed-text")
	if _, err := p.Generate(context.Background(), "anything", ""); err == nil {
		t.Fatal("expected an error from a failing provider")
	}
}
