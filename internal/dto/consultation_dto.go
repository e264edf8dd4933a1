package dto

type RequestConsultantRequest struct {
	UserQuery           string        `json:"userQuery" validate:"required"`
	ConversationHistory []HistoryTurn `json:"conversationHistory"`
	SessionId           string        `json:"sessionId"`
	Categories          []string      `json:"categories"`
}

type RequestConsultantResponse struct {
	Success        bool   `json:"success"`
	ConsultationId string `json:"consultation_id"`
	Message        string `json:"message"`
}

type RequestDemoRequest struct {
	CompanyName  string `json:"companyName" validate:"required"`
	CustomerName string `json:"customerName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	SendType     string `json:"sendType"`
	UsagePurpose string `json:"usagePurpose"`
}

type RequestDemoResponse struct {
	Success   bool   `json:"success"`
	RequestId string `json:"request_id"`
	Message   string `json:"message"`
}
