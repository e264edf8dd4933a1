package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDemoConfirmation(toEmail, customerName, companyName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendDemoConfirmation(toEmail, customerName, companyName string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "처음서비스 데모 신청이 접수되었습니다")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s님, 데모 신청이 접수되었습니다.</h2>
			<p>%s의 데모 신청을 확인했습니다.</p>
			<p>담당자가 영업일 기준 1~2일 내에 연락드리겠습니다.</p>
			<p>감사합니다.<br/>처음서비스 팀</p>
		</div>
	`, customerName, companyName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send demo confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Demo confirmation sent to %s\n", toEmail)
	return nil
}
