package facts

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/cache"
	"graphrag-chatbot-be/pkg/resilience"
)

type fakeTripleRepo struct {
	triples []model.Triple
	err     error
	calls   int
}

func (f *fakeTripleRepo) SearchByKeywords(_ context.Context, _ []string, _ int) ([]model.Triple, error) {
	f.calls++
	return f.triples, f.err
}

func (f *fakeTripleRepo) SearchByParts(_ context.Context, _, _, _ string, _ int) ([]model.Triple, error) {
	f.calls++
	return f.triples, f.err
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func newTestClient(repo *fakeTripleRepo, store cache.Store) *Client {
	c := NewClient(repo, store, logger.Nop())
	c.retry = fastRetry()
	return c
}

func TestQueryByTextDeduplicates(t *testing.T) {
	repo := &fakeTripleRepo{triples: []model.Triple{
		{Subject: "처음서비스", Predicate: "제공", Object: "이메일"},
		{Subject: "처음서비스", Predicate: "제공", Object: "이메일"},
		{Subject: "마이메일러", Predicate: "지원", Object: "대량발송"},
	}}

	client := newTestClient(repo, nil)
	lines, err := client.QueryByText(context.Background(), "처음서비스 기능")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 unique lines, got %v", lines)
	}
	if lines[0] != "처음서비스 제공 이메일" {
		t.Errorf("unexpected rendering: %q", lines[0])
	}
}

func TestQueryByTextCaches(t *testing.T) {
	repo := &fakeTripleRepo{triples: []model.Triple{
		{Subject: "a", Predicate: "b", Object: "c"},
	}}
	store := cache.NewMemoryStore(10, time.Hour)
	client := newTestClient(repo, store)

	ctx := context.Background()
	if _, err := client.QueryByText(ctx, "질문"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.QueryByText(ctx, "질문"); err != nil {
		t.Fatal(err)
	}
	if repo.calls != 1 {
		t.Errorf("repo called %d times, want 1 (second hit should be cached)", repo.calls)
	}
}

func TestQueryByTextStoreUnavailable(t *testing.T) {
	repo := &fakeTripleRepo{err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	client := newTestClient(repo, nil)

	_, err := client.QueryByText(context.Background(), "질문")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestQueryByTextQueryFailed(t *testing.T) {
	repo := &fakeTripleRepo{err: errors.New("syntax error")}
	client := newTestClient(repo, nil)

	_, err := client.QueryByText(context.Background(), "질문")
	if !errors.Is(err, ErrQueryFailed) {
		t.Errorf("expected ErrQueryFailed, got %v", err)
	}
	if errors.Is(err, ErrStoreUnavailable) {
		t.Error("error kinds must be distinct")
	}
}

func TestQueryByPartsAllBlank(t *testing.T) {
	repo := &fakeTripleRepo{}
	client := newTestClient(repo, nil)

	lines, err := client.QueryByParts(context.Background(), " ", "", "  ")
	if err != nil {
		t.Fatalf("blank query should not error: %v", err)
	}
	if lines != nil {
		t.Errorf("expected nil result, got %v", lines)
	}
	if repo.calls != 0 {
		t.Error("repository should not be called for all-blank elements")
	}
}

func TestQueryByPartsPartial(t *testing.T) {
	repo := &fakeTripleRepo{triples: []model.Triple{
		{Subject: "요금제", Predicate: "가격", Object: "30000원"},
	}}
	client := newTestClient(repo, nil)

	lines, err := client.QueryByParts(context.Background(), "요금제", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "요금제 가격 30000원" {
		t.Errorf("unexpected result: %v", lines)
	}
}
