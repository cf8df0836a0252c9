package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOllamaNomicPrefixes(t *testing.T) {
	var got []ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		got = append(got, req)
		resp := ollamaEmbedResponse{}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{1, 2})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 2, srv.URL)
	if _, err := e.Embed(context.Background(), []string{"doc one", "doc two"}, IntentDocument); err != nil {
		t.Fatalf("Embed document: %v", err)
	}
	if _, err := e.Embed(context.Background(), []string{"what"}, IntentQuery); err != nil {
		t.Fatalf("Embed query: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0].Input[0] != "search_document: doc one" || got[0].Input[1] != "search_document: doc two" {
		t.Errorf("unexpected document input %v", got[0].Input)
	}
	if got[1].Input[0] != "search_query: what" {
		t.Errorf("unexpected query input %v", got[1].Input)
	}
}

func TestOllamaOtherModelsUnprefixed(t *testing.T) {
	var input []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		input = req.Input
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("mxbai-embed-large", 1, srv.URL)
	if _, err := e.Embed(context.Background(), []string{"plain"}, IntentQuery); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if input[0] != "plain" {
		t.Errorf("expected unprefixed input, got %q", input[0])
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("missing", 2, srv.URL)
	_, err := e.Embed(context.Background(), []string{"x"}, IntentDocument)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGoogleTaskType(t *testing.T) {
	var taskTypes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/text-embedding-004:embedContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("expected api key in query")
		}
		var req googleEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		taskTypes = append(taskTypes, req.TaskType)
		w.Write([]byte(`{"embedding":{"values":[0.5,0.25]}}`))
	}))
	defer srv.Close()

	e := NewGoogleEmbedder("secret", ModelTextEmbedding004, srv.URL)
	if e.Dimensions() != 768 {
		t.Errorf("expected 768 dimensions, got %d", e.Dimensions())
	}

	vecs, err := e.Embed(context.Background(), []string{"a", "b"}, IntentDocument)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][1] != 0.25 {
		t.Errorf("unexpected vectors %v", vecs)
	}
	if _, err := e.Embed(context.Background(), []string{"q"}, IntentQuery); err != nil {
		t.Fatalf("Embed query: %v", err)
	}

	want := []string{"RETRIEVAL_DOCUMENT", "RETRIEVAL_DOCUMENT", "RETRIEVAL_QUERY"}
	if strings.Join(taskTypes, ",") != strings.Join(want, ",") {
		t.Errorf("expected task types %v, got %v", want, taskTypes)
	}
}

func TestOpenAIBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "local-embed" {
			t.Errorf("unexpected model %q", req.Model)
		}
		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		resp := struct {
			Object string `json:"object"`
			Data   []item `json:"data"`
			Model  string `json:"model"`
		}{Object: "list", Model: req.Model}
		for i := range req.Input {
			resp.Data = append(resp.Data, item{Object: "embedding", Embedding: []float32{float32(i), 1}, Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder("test-key", OpenAIModel("local-embed"), srv.URL+"/v1", 0)
	if e.Dimensions() != 0 {
		t.Errorf("unknown model should not declare dimensions, got %d", e.Dimensions())
	}
	vecs, err := e.Embed(context.Background(), []string{"x", "y"}, IntentDocument)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 1 {
		t.Errorf("unexpected vectors %v", vecs)
	}
}

func TestOpenAIDimensions(t *testing.T) {
	if d := NewOpenAIEmbedder("k", ModelTextEmbedding3Small, "", 0).Dimensions(); d != 1536 {
		t.Errorf("expected 1536, got %d", d)
	}
	if d := NewOpenAIEmbedder("k", ModelTextEmbedding3Large, "", 256).Dimensions(); d != 256 {
		t.Errorf("expected override 256, got %d", d)
	}
}

func TestRateLimitedPassesThrough(t *testing.T) {
	mock := &MockEmbedder{Dims: 2, Fn: unitByLetter}
	e := NewRateLimited(mock, 600)
	if e.Name() != "mock" || e.Dimensions() != 2 {
		t.Errorf("wrapper should report inner name and dimensions")
	}
	for i := 0; i < 3; i++ {
		if _, err := e.Embed(context.Background(), []string{"a"}, IntentQuery); err != nil {
			t.Fatalf("Embed: %v", err)
		}
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRateLimitedHonoursContext(t *testing.T) {
	mock := &MockEmbedder{Dims: 2, Fn: unitByLetter}
	e := NewRateLimited(mock, 1)

	if _, err := e.Embed(context.Background(), []string{"a"}, IntentQuery); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := e.Embed(ctx, []string{"a"}, IntentQuery); err == nil {
		t.Fatal("expected second call to be throttled past the deadline")
	}
	if mock.CallCount() != 1 {
		t.Errorf("throttled call must not reach the embedder")
	}
}

func TestRateLimitedDisabled(t *testing.T) {
	mock := &MockEmbedder{}
	if NewRateLimited(mock, 0) != Embedder(mock) {
		t.Error("rpm 0 should return the embedder unchanged")
	}
}

func TestToChromemFunc(t *testing.T) {
	mock := &MockEmbedder{Dims: 2, Fn: unitByLetter}
	fn := ToChromemFunc(mock, IntentQuery)
	vec, err := fn(context.Background(), "b")
	if err != nil {
		t.Fatalf("embedding func: %v", err)
	}
	if vec[1] != 1 {
		t.Errorf("unexpected vector %v", vec)
	}
	if mock.Intents[0] != IntentQuery {
		t.Errorf("expected query intent")
	}
}
