package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	// Engine type markers reported in response metadata at the API
	// boundary.
	EngineDiscoveryMain         = "discovery_engine_main"
	EngineDiscoveryAnswer       = "discovery_engine_answer"
	EngineSensitiveQueryHandler = "sensitive_query_handler"
	EngineRagFallbackConsultant = "rag_fallback_to_consultant"
	EngineRagErrorConsultant    = "rag_error_to_consultant"
	EngineGraphGrounded         = "graph_grounded"
	EngineErrorFallback         = "error_fallback"

	// Escalation categories added by the orchestrator on top of the
	// classifier's own labels.
	CategoryRagInsufficient = "rag_insufficient"
	CategoryRagError        = "rag_error"
)

// Canned responses for queries the bot must not answer itself. Keyed by
// escalation category; DefaultEscalationResponse covers the rest.
const (
	ConsultantEscalationResponse    = "해당 질문은 제가 처리할 수 없습니다. 상담사와 연결을 도와드릴까요?"
	SpecificPriceEscalationResponse = "구체적인 가격 정보는 제가 정확하게 안내드리기 어렵습니다. 정확한 요금 안내를 위해 상담사와 연결을 도와드릴까요?"
	DiscountEscalationResponse      = "할인이나 프로모션에 관한 문의는 제가 정확한 정보를 제공하기 어렵습니다. 상담사와 연결을 도와드릴까요?"
	ContractEscalationResponse      = "계약이나 법적 사항에 대한 문의는 제가 처리할 수 없습니다. 상담사와 연결을 도와드릴까요?"
	PrivacyEscalationResponse       = "개인정보나 보안 관련 문의는 제가 처리할 수 없습니다. 상담사와 연결을 도와드릴까요?"
	PlanInfoEscalationResponse      = "요금제 관련 정보를 찾지 못했습니다. 더 정확한 안내를 위해 상담사와 연결을 도와드릴까요?"
	RagErrorEscalationResponse      = "일시적인 시스템 오류가 발생했습니다. 정확한 안내를 위해 상담사와 연결을 도와드릴까요?"
	DefaultEscalationResponse       = "해당 질문은 제가 처리할 수 없습니다. 상담사와 연결을 도와드릴까요?"

	// GenericErrorResponse is returned when the pipeline itself fails.
	// The transport still reports success so the conversation UI keeps
	// working.
	GenericErrorResponse = "죄송합니다. 일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)
