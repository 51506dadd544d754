package embedding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/config"
)

type mockProvider struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.embedFunc(ctx, text)
}

func TestGetEmbeddings_PreservesInputOrder(t *testing.T) {
	// later texts finish first, results must still line up by index
	provider := &mockProvider{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		if text == "first" {
			time.Sleep(30 * time.Millisecond)
		}
		return []float32{float32(len(text))}, nil
	}}
	svc := NewService(provider)

	texts := []string{"first", "second chunk", "third"}
	results := svc.GetEmbeddings(context.Background(), texts)

	if len(results) != len(texts) {
		t.Fatalf("results = %d, want %d", len(results), len(texts))
	}
	for i, text := range texts {
		if results[i].Text != text {
			t.Errorf("result %d holds %q, want %q", i, results[i].Text, text)
		}
		if results[i].Embedding[0] != float32(len(text)) {
			t.Errorf("result %d paired with the wrong vector", i)
		}
	}
}

func TestGetEmbeddings_FallbackOnFailure(t *testing.T) {
	provider := &mockProvider{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("service down")
	}}
	svc := NewService(provider)

	results := svc.GetEmbeddings(context.Background(), []string{"a", "b"})

	for i, result := range results {
		if len(result.Embedding) != int(config.EmbeddingDimension) {
			t.Errorf("fallback %d has %d dims, want %d", i, len(result.Embedding), config.EmbeddingDimension)
		}
		for _, v := range result.Embedding {
			if v < -1 || v > 1 {
				t.Errorf("fallback component %f outside [-1, 1]", v)
				break
			}
		}
	}
}

func TestGetEmbeddings_PartialFailureStillPairs(t *testing.T) {
	provider := &mockProvider{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		if text == "bad" {
			return nil, fmt.Errorf("rejected")
		}
		return []float32{1, 2, 3}, nil
	}}
	svc := NewService(provider)

	results := svc.GetEmbeddings(context.Background(), []string{"ok", "bad", "ok again"})

	if len(results[0].Embedding) != 3 || len(results[2].Embedding) != 3 {
		t.Error("successful texts must keep their provider vectors")
	}
	if len(results[1].Embedding) != int(config.EmbeddingDimension) {
		t.Errorf("failed text got %d dims, want the fallback length %d", len(results[1].Embedding), config.EmbeddingDimension)
	}
}

func TestGetEmbeddings_Empty(t *testing.T) {
	svc := NewService(&mockProvider{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		t.Error("provider must not be called for an empty batch")
		return nil, nil
	}})

	results := svc.GetEmbeddings(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}
