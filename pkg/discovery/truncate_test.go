package discovery

import (
	"strings"
	"testing"
)

func TestTruncateQuery(t *testing.T) {
	t.Run("short query unchanged", func(t *testing.T) {
		q := "요금제가 얼마인가요?"
		if got := TruncateQuery(q, 2000); got != q {
			t.Errorf("short query modified: %q", got)
		}
	})

	t.Run("query at limit unchanged", func(t *testing.T) {
		q := strings.Repeat("가", 2000)
		if got := TruncateQuery(q, 2000); got != q {
			t.Errorf("query at limit modified, len %d", len([]rune(got)))
		}
	})

	t.Run("long query cut under limit", func(t *testing.T) {
		q := strings.Repeat("가", 3000)
		got := TruncateQuery(q, 2000)
		if n := len([]rune(got)); n > 2000 {
			t.Errorf("result %d runes exceeds limit", n)
		}
	})

	t.Run("prefers sentence boundaries", func(t *testing.T) {
		sentence := strings.Repeat("나", 300) + "."
		q := strings.Repeat(sentence, 10)
		got := TruncateQuery(q, 2000)
		if !strings.HasSuffix(got, ".") {
			t.Errorf("expected sentence-boundary cut, got suffix %q", got[len(got)-10:])
		}
		if n := len([]rune(got)); n > 2000-truncateMargin {
			t.Errorf("sentence cut %d runes exceeds margin budget", n)
		}
	})

	t.Run("hard cut with ellipsis when sentences too long", func(t *testing.T) {
		q := strings.Repeat("다", 3000) // no periods at all
		got := TruncateQuery(q, 2000)
		if !strings.HasSuffix(got, "...") {
			t.Error("expected ellipsis on hard cut")
		}
		if n := len([]rune(got)); n > 2000 {
			t.Errorf("hard cut %d runes exceeds limit", n)
		}
	})

	t.Run("limit smaller than margin", func(t *testing.T) {
		q := strings.Repeat("라", 100)
		got := TruncateQuery(q, 10)
		if n := len([]rune(got)); n > 10 {
			t.Errorf("tiny limit result %d runes exceeds limit", n)
		}
	})

	t.Run("multibyte safe", func(t *testing.T) {
		q := strings.Repeat("한글텍스트", 1000)
		got := TruncateQuery(q, 2000)
		for _, r := range got {
			if r == '�' {
				t.Fatal("rune corruption in truncated output")
			}
		}
	})
}
