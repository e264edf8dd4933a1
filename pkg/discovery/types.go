package discovery

import "fmt"

// APIError carries the provider's HTTP status so callers can decide
// whether a failure is retryable.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discovery %s failed: HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Retryable reports whether the failure is transient (throttling or
// server-side errors).
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type searchRequest struct {
	Query               string              `json:"query"`
	PageSize            int                 `json:"pageSize"`
	Session             string              `json:"session,omitempty"`
	SpellCorrectionSpec spellCorrectionSpec `json:"spellCorrectionSpec"`
	LanguageCode        string              `json:"languageCode"`
	UserInfo            userInfo            `json:"userInfo"`
	ContentSearchSpec   contentSearchSpec   `json:"contentSearchSpec"`
}

type spellCorrectionSpec struct {
	Mode string `json:"mode"`
}

type userInfo struct {
	TimeZone string `json:"timeZone"`
}

type contentSearchSpec struct {
	SnippetSpec snippetSpec  `json:"snippetSpec"`
	SummarySpec *summarySpec `json:"summarySpec,omitempty"`
}

type snippetSpec struct {
	ReturnSnippet   bool `json:"returnSnippet"`
	MaxSnippetCount int  `json:"maxSnippetCount,omitempty"`
}

type summarySpec struct {
	SummaryResultCount           int             `json:"summaryResultCount"`
	IncludeCitations             bool            `json:"includeCitations"`
	IgnoreAdversarialQuery       bool            `json:"ignoreAdversarialQuery"`
	IgnoreNonSummarySeekingQuery bool            `json:"ignoreNonSummarySeekingQuery"`
	ModelPromptSpec              modelPromptSpec `json:"modelPromptSpec"`
}

type modelPromptSpec struct {
	Preamble string `json:"preamble"`
}

// SearchResponse is the subset of the provider search payload the
// pipeline consumes.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	SessionInfo SessionInfo    `json:"sessionInfo"`
	TotalSize   int            `json:"totalSize"`
	Summary     *SearchSummary `json:"summary,omitempty"`
}

type SessionInfo struct {
	Name    string `json:"name"`
	QueryID string `json:"queryId"`
}

type SearchSummary struct {
	SummaryText string `json:"summaryText"`
}

type SearchResult struct {
	Document Document `json:"document"`
}

type Document struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	URI               string            `json:"uri"`
	DerivedStructData DerivedStructData `json:"derivedStructData"`
}

type DerivedStructData struct {
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Snippets []Snippet `json:"snippets"`
}

type Snippet struct {
	Snippet       string `json:"snippet"`
	SnippetStatus string `json:"snippet_status"`
}

type answerRequest struct {
	Query                answerQuery          `json:"query"`
	Session              string               `json:"session,omitempty"`
	RelatedQuestionsSpec relatedQuestionsSpec `json:"relatedQuestionsSpec"`
	AnswerGenerationSpec answerGenerationSpec `json:"answerGenerationSpec"`
}

type answerQuery struct {
	Text    string `json:"text"`
	QueryID string `json:"queryId,omitempty"`
}

type relatedQuestionsSpec struct {
	Enable bool `json:"enable"`
}

type answerGenerationSpec struct {
	IgnoreAdversarialQuery      bool           `json:"ignoreAdversarialQuery"`
	IgnoreNonAnswerSeekingQuery bool           `json:"ignoreNonAnswerSeekingQuery"`
	IgnoreLowRelevantContent    bool           `json:"ignoreLowRelevantContent"`
	MultimodalSpec              multimodalSpec `json:"multimodalSpec"`
	IncludeCitations            bool           `json:"includeCitations"`
	PromptSpec                  promptSpec     `json:"promptSpec"`
	ModelSpec                   modelSpec      `json:"modelSpec"`
}

type multimodalSpec struct {
	ImageSource string `json:"imageSource"`
}

type promptSpec struct {
	Preamble string `json:"preamble"`
}

type modelSpec struct {
	ModelVersion string `json:"modelVersion"`
}

// AnswerResponse is the subset of the provider answer payload the
// pipeline consumes.
type AnswerResponse struct {
	Answer           Answer            `json:"answer"`
	RelatedQuestions []RelatedQuestion `json:"relatedQuestions"`
}

type Answer struct {
	AnswerText string      `json:"answerText"`
	Citations  []Citation  `json:"citations"`
	References []Reference `json:"references"`
}

type Citation struct {
	Title       string `json:"title,omitempty"`
	URI         string `json:"uri,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type Reference struct {
	ChunkInfo *ChunkInfo `json:"chunkInfo,omitempty"`
}

type ChunkInfo struct {
	Content          string            `json:"content"`
	RelevanceScore   float64           `json:"relevanceScore"`
	DocumentMetadata *DocumentMetadata `json:"documentMetadata,omitempty"`
}

type DocumentMetadata struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type RelatedQuestion struct {
	Question string `json:"question"`
}
