package dto

// HistoryPart is one text fragment of a conversation turn.
type HistoryPart struct {
	Text string `json:"text"`
}

// HistoryTurn is a role-tagged message in the conversation history the
// frontend threads through every request.
type HistoryTurn struct {
	Role  string        `json:"role"`
	Parts []HistoryPart `json:"parts"`
}

type GenerateRequest struct {
	UserPrompt          string        `json:"userPrompt" validate:"required"`
	ConversationHistory []HistoryTurn `json:"conversationHistory"`
	SessionId           string        `json:"sessionId"`
}

// CitationDTO is a source reference attached to a generated answer.
type CitationDTO struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// SearchResultDTO is the trimmed-down search hit exposed to the frontend.
type SearchResultDTO struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Snippets []string `json:"snippets,omitempty"`
}

// ResponseMetadata describes how the answer was produced. Sensitive-path
// fields are only populated when the classifier intervened.
type ResponseMetadata struct {
	EngineType          string   `json:"engine_type"`
	QueryId             string   `json:"query_id,omitempty"`
	SessionId           string   `json:"session_id,omitempty"`
	SensitiveDetected   bool     `json:"sensitive_detected,omitempty"`
	SensitiveCategories []string `json:"sensitive_categories,omitempty"`
	Confidence          float64  `json:"confidence,omitempty"`
	QueryType           string   `json:"query_type,omitempty"`
	Error               bool     `json:"error,omitempty"`
}

// QualityCheckDTO summarizes the answer-quality signals for the frontend.
type QualityCheckDTO struct {
	HasAnswer        bool `json:"has_answer"`
	DiscoverySuccess bool `json:"discovery_success"`
	SensitiveQuery   bool `json:"sensitive_query"`
	RelevancePassed  bool `json:"relevance_passed"`
	TriplesFound     bool `json:"triples_found"`
}

type GenerateResponse struct {
	Answer           string            `json:"answer"`
	SummaryAnswer    string            `json:"summary_answer"`
	Citations        []CitationDTO     `json:"citations"`
	SearchResults    []SearchResultDTO `json:"search_results"`
	RelatedQuestions []string          `json:"related_questions"`
	UpdatedHistory   []HistoryTurn     `json:"updatedHistory"`
	Metadata         ResponseMetadata  `json:"metadata"`
	QualityCheck     QualityCheckDTO   `json:"quality_check"`
	ConsultantNeeded bool              `json:"consultant_needed"`
}

// DiscoveryAnswerRequest drives the raw answer endpoint, which skips
// classification and fact grounding.
type DiscoveryAnswerRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"sessionId"`
}

type DiscoveryAnswerResponse struct {
	Answer           string           `json:"answer"`
	Citations        []CitationDTO    `json:"citations"`
	RelatedQuestions []string         `json:"related_questions"`
	Metadata         ResponseMetadata `json:"metadata"`
}
