package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/pkg/mailer"
	"graphrag-chatbot-be/pkg/resilience"

	"github.com/google/uuid"
)

type IDemoService interface {
	RequestDemo(ctx context.Context, request *dto.RequestDemoRequest) (*dto.RequestDemoResponse, error)
}

type demoService struct {
	webhookURL string
	httpClient *http.Client
	retry      resilience.RetryConfig
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewDemoService(webhookURL string, emailService mailer.IEmailService, log logger.ILogger) IDemoService {
	return &demoService{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      resilience.DefaultRetryConfig(),
		mailer:     emailService,
		logger:     log,
	}
}

// RequestDemo forwards a demo signup to the sales webhook and sends the
// requester a confirmation email. The email is best-effort; webhook
// delivery decides success.
func (s *demoService) RequestDemo(ctx context.Context, request *dto.RequestDemoRequest) (*dto.RequestDemoResponse, error) {
	requestId := "demo_" + uuid.NewString()

	if s.webhookURL == "" {
		s.logger.Error("DEMO", "Webhook URL not configured", nil)
		return &dto.RequestDemoResponse{
			Success: false,
			Message: "데모 신청 처리 중 오류가 발생했습니다",
		}, nil
	}

	payload := map[string]interface{}{
		"text": fmt.Sprintf("📝 *새로운 데모 신청*\n\n*회사명:* %s\n*담당자:* %s", request.CompanyName, request.CustomerName),
		"cards": []map[string]interface{}{{
			"sections": []map[string]interface{}{{
				"widgets": []map[string]interface{}{
					{"keyValue": map[string]interface{}{"topLabel": "이메일", "content": orDefault(request.Email)}},
					{"keyValue": map[string]interface{}{"topLabel": "연락처", "content": orDefault(request.Phone)}},
					{"keyValue": map[string]interface{}{"topLabel": "발송 유형", "content": orDefault(request.SendType)}},
					{"keyValue": map[string]interface{}{"topLabel": "사용 목적", "content": orDefault(request.UsagePurpose)}},
					{"keyValue": map[string]interface{}{"topLabel": "신청 ID", "content": requestId}},
				},
			}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal demo payload: %w", err)
	}

	err = resilience.Retry(ctx, s.retry, s.logger, "demo.webhook", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return resilience.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error("DEMO", "Demo webhook delivery failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &dto.RequestDemoResponse{
			Success:   false,
			RequestId: requestId,
			Message:   "데모 신청 전송에 실패했습니다",
		}, nil
	}

	if s.mailer != nil {
		if err := s.mailer.SendDemoConfirmation(request.Email, request.CustomerName, request.CompanyName); err != nil {
			s.logger.Warn("DEMO", "Confirmation email failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("DEMO", "Demo request delivered", map[string]interface{}{
		"request_id": requestId,
		"company":    request.CompanyName,
	})
	return &dto.RequestDemoResponse{
		Success:   true,
		RequestId: requestId,
		Message:   "데모 신청이 접수되었습니다",
	}, nil
}

func orDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return "미입력"
	}
	return value
}
