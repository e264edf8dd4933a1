package textnorm

import (
	"fmt"
	"regexp"
	"strings"

	"graphrag-chatbot-be/internal/pkg/logger"
)

// protectedTerms are product and proper nouns that must survive normalization
// untouched (no typo correction, no josa stripping).
var protectedTerms = []string{
	"처음서비스", "처음소프트", "씨디엠소프트", "처음서베이",
	"API", "UI", "UX", "DB", "URL", "IP", "ID",
	"GraphRAG", "마이메일러", "프링고",
}

// josaPatterns are Korean particles stripped from word endings, ordered
// longest-first so multi-syllable particles win over their suffixes.
var josaPatterns = []string{
	"에서부터", "까지도", "들이나", "들과도", "들에서",
	"에서", "부터", "까지", "께서", "에게", "한테", "보다", "처럼", "마저", "조차",
	"라도", "이나", "거나", "들이", "들을", "들은", "들도", "들만", "들의", "들과",
	"으로", "로서", "로써", "에도", "로도", "와도", "과도", "만큼", "다가",
	"는", "은", "이", "가", "을", "를", "에", "로", "와", "과", "의", "도", "만",
	"나", "든", "야", "아", "여", "고", "니", "라",
}

type rewriteRule struct {
	re          *regexp.Regexp
	replacement string
}

var typoRules = []rewriteRule{
	{regexp.MustCompile(`어떡게`), "어떻게"},
	{regexp.MustCompile(`어떻해`), "어떻게"},
	{regexp.MustCompile(`어캐`), "어떻게"},
	{regexp.MustCompile(`어뜨케`), "어떻게"},
	{regexp.MustCompile(`어떻개`), "어떻게"},
	{regexp.MustCompile(`않됨`), "안돼"},
	{regexp.MustCompile(`안됨`), "안돼"},
	{regexp.MustCompile(`되용`), "되요"},
	{regexp.MustCompile(`되여`), "되어"},
	{regexp.MustCompile(`해여`), "해서"},
	{regexp.MustCompile(`이써`), "있어"},
	{regexp.MustCompile(`업써`), "없어"},
	{regexp.MustCompile(`잇어`), "있어"},
	{regexp.MustCompile(`업어`), "없어"},
	{regexp.MustCompile(`사용방뻐`), "사용방법"},
	{regexp.MustCompile(`사용밥법`), "사용방법"},
	{regexp.MustCompile(`사용법`), "사용방법"},
	{regexp.MustCompile(`머야`), "뭐야"},
	{regexp.MustCompile(`모야`), "뭐야"},
	{regexp.MustCompile(`마이매일러`), "마이메일러"},
	{regexp.MustCompile(`매일러`), "메일러"},
	{regexp.MustCompile(`로긴`), "로그인"},
	{regexp.MustCompile(`패스워드`), "비밀번호"},
	{regexp.MustCompile(`비번`), "비밀번호"},
	{regexp.MustCompile(`셋팅`), "설정"},
	{regexp.MustCompile(`세팅`), "설정"},
	{regexp.MustCompile(`삭재`), "삭제"},
	{regexp.MustCompile(`(?i)\bteh\b`), "the"},
	{regexp.MustCompile(`(?i)\bamd\b`), "and"},
	{regexp.MustCompile(`(?i)\byuo\b`), "you"},
	{regexp.MustCompile(`(?i)\btaht\b`), "that"},
	{regexp.MustCompile(`(?i)\bform\b`), "from"},
}

var spacingRules = []rewriteRule{
	{regexp.MustCompile(`([가-힣]) (이에요|예요|입니다|습니다|에요|이야)`), "$1$2"},
	{regexp.MustCompile(`로그 ?인`), "로그인"},
	{regexp.MustCompile(`비밀 ?번호`), "비밀번호"},
	{regexp.MustCompile(`사용 ?방법`), "사용방법"},
	{regexp.MustCompile(`처음 ?서비스`), "처음서비스"},
	{regexp.MustCompile(`마이 ?메일러`), "마이메일러"},
	{regexp.MustCompile(`어떻 ?게`), "어떻게"},
	{regexp.MustCompile(`무엇 ?을`), "무엇을"},
	{regexp.MustCompile(`언제 ?부터`), "언제부터"},
	{regexp.MustCompile(`어디 ?서`), "어디서"},
	{regexp.MustCompile(`데이터 ?베이스`), "데이터베이스"},
	{regexp.MustCompile(`홈 ?페이지`), "홈페이지"},
	{regexp.MustCompile(`웹 ?사이트`), "웹사이트"},
	{regexp.MustCompile(`파일 ?업로드`), "파일업로드"},
	{regexp.MustCompile(`다운 ?로드`), "다운로드"},
	{regexp.MustCompile(`할 ?수 ?있다`), "할수있다"},
	{regexp.MustCompile(`할 ?수 ?없다`), "할수없다"},
	{regexp.MustCompile(`되지 ?않는다`), "되지않는다"},
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\sㄱ-ㅎㅏ-ㅣ가-힣]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
	jamoRunRe    = regexp.MustCompile(`[ㅏ-ㅣㄱ-ㅎ]{2,}`)
)

// Normalizer cleans noisy user queries before they reach retrieval:
// spacing fixes, typo correction, particle stripping and keyword extraction.
type Normalizer struct {
	stopwords map[string]struct{}
	log       logger.ILogger
}

func New(stopwordsPath string, log logger.ILogger) *Normalizer {
	return &Normalizer{
		stopwords: loadStopwords(stopwordsPath, log),
		log:       log,
	}
}

// protect swaps protected terms for single-token placeholders so the
// rewrite rules cannot mangle them. Returns the placeholder mapping.
func protect(text string) (string, map[string]string) {
	placeholders := make(map[string]string)
	for i, term := range protectedTerms {
		if strings.Contains(text, term) {
			placeholder := fmt.Sprintf("PROTECTED%dTERM", i)
			placeholders[placeholder] = term
			text = strings.ReplaceAll(text, term, placeholder)
		}
	}
	return text, placeholders
}

func restore(text string, placeholders map[string]string) string {
	for placeholder, term := range placeholders {
		text = strings.ReplaceAll(text, placeholder, term)
	}
	return text
}

// FixTypos applies the typo table plus repeated-character collapsing.
// Protected terms are shielded for the duration of the rewrite.
func FixTypos(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	corrected, placeholders := protect(text)
	for _, rule := range typoRules {
		corrected = rule.re.ReplaceAllString(corrected, rule.replacement)
	}

	// Backreference-style collapses ported to rune scans.
	corrected = collapseRuns(corrected, isLaughJamo, 3, 2)
	corrected = collapseRuns(corrected, isASCIILetter, 3, 1)
	corrected = collapseRuns(corrected, isRepeatPunct, 3, 1)
	corrected = collapseRuns(corrected, isJamo, 2, 1)
	corrected = jamoRunRe.ReplaceAllString(corrected, "")

	corrected = restore(corrected, placeholders)
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(corrected, " "))
}

func isLaughJamo(r rune) bool   { return r == 'ㅋ' || r == 'ㅎ' }
func isASCIILetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isRepeatPunct(r rune) bool { return r == '!' || r == '?' || r == '.' }
func isJamo(r rune) bool        { return (r >= 'ㅏ' && r <= 'ㅣ') || (r >= 'ㄱ' && r <= 'ㅎ') }

// collapseRuns shortens runs of the same rune (matching class) of length
// >= minRun down to keep repetitions.
func collapseRuns(text string, class func(rune) bool, minRun, keep int) string {
	runes := []rune(text)
	var out []rune
	for i := 0; i < len(runes); {
		r := runes[i]
		j := i + 1
		for j < len(runes) && runes[j] == r {
			j++
		}
		runLen := j - i
		if class(r) && runLen >= minRun {
			for k := 0; k < keep; k++ {
				out = append(out, r)
			}
		} else {
			out = append(out, runes[i:j]...)
		}
		i = j
	}
	return string(out)
}

// ApplySpacing merges split compounds ("로그 인" -> "로그인") and glued endings.
func ApplySpacing(text string) string {
	for _, rule := range spacingRules {
		text = rule.re.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// stripJosa removes trailing particles word by word. Single-rune words
// pass through untouched.
func stripJosa(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	words := strings.Fields(text)
	result := make([]string, 0, len(words))
	for _, word := range words {
		runes := []rune(word)
		if len(runes) <= 1 {
			result = append(result, word)
			continue
		}

		base := word
		for _, josa := range josaPatterns {
			josaRunes := []rune(josa)
			if strings.HasSuffix(word, josa) && len(runes) > len(josaRunes) {
				base = string(runes[:len(runes)-len(josaRunes)])
				break
			}
		}
		if base != "" {
			result = append(result, base)
		}
	}
	return strings.Join(result, " ")
}

// NormalizeForSearch runs the full pipeline: spacing, typos, punctuation
// stripping, particle removal. Protected terms are pulled out before josa
// stripping and prepended to the result.
func (n *Normalizer) NormalizeForSearch(text string) string {
	if text == "" {
		return ""
	}

	cleaned := FixTypos(ApplySpacing(text))
	cleaned = nonWordRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(multiSpaceRe.ReplaceAllString(cleaned, " "))

	var protectedFound []string
	for _, term := range protectedTerms {
		if strings.Contains(cleaned, term) {
			protectedFound = append(protectedFound, term)
			cleaned = strings.ReplaceAll(cleaned, term, " ")
		}
	}

	noJosa := stripJosa(cleaned)
	if len(protectedFound) > 0 {
		noJosa = strings.Join(protectedFound, " ") + " " + noJosa
	}

	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(noJosa, " "))
}
