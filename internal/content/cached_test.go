package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/pathmind/internal/cache"
)

type countingGenerator struct {
	Generator
	calls int
	err   error
}

func (g *countingGenerator) GenerateModuleContent(_ context.Context, topic, module string) (*ModuleContent, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &ModuleContent{
		Explanation: topic + "/" + module,
		Practice: PracticeQuestion{
			Question:      "Q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
		},
	}, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Close() error { return nil }

func TestCachingGenerator_Hit(t *testing.T) {
	inner := &countingGenerator{}
	gen := NewCaching(inner, cache.NewMemory(), time.Hour, nil)
	ctx := context.Background()

	first, err := gen.GenerateModuleContent(ctx, "Go", "Loops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.GenerateModuleContent(ctx, "Go", "Loops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 generator call, got %d", inner.calls)
	}
	if second.Explanation != first.Explanation {
		t.Errorf("cached content differs: %q vs %q", second.Explanation, first.Explanation)
	}

	if _, err := gen.GenerateModuleContent(ctx, "Go", "Recursion"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("different module must miss, got %d calls", inner.calls)
	}
}

func TestCachingGenerator_ErrorsNotCached(t *testing.T) {
	inner := &countingGenerator{err: errors.New("model down")}
	mem := cache.NewMemory()
	gen := NewCaching(inner, mem, time.Hour, nil)

	if _, err := gen.GenerateModuleContent(context.Background(), "Go", "Loops"); err == nil {
		t.Fatal("expected error")
	}
	if mem.Len() != 0 {
		t.Errorf("failures must not be cached, got %d entries", mem.Len())
	}
}

func TestCachingGenerator_BrokenCacheBypassed(t *testing.T) {
	inner := &countingGenerator{}
	gen := NewCaching(inner, brokenCache{}, 0, nil)

	mc, err := gen.GenerateModuleContent(context.Background(), "Go", "Loops")
	if err != nil {
		t.Fatalf("cache errors must not surface: %v", err)
	}
	if mc.Explanation != "Go/Loops" {
		t.Errorf("unexpected content %+v", mc)
	}
}

func TestModuleCacheKey(t *testing.T) {
	if moduleCacheKey("ab", "c") == moduleCacheKey("a", "bc") {
		t.Error("keys must not collide across the topic/module boundary")
	}
}
