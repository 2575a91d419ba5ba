package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

const registrationSubject = "Nueva empresa registrada"

const registrationBody = `Se ha registrado una nueva empresa en la bolsa de empleo.

Nombre: %s
Email: %s

La empresa queda pendiente de aprobación.
`

// Notifier sends transactional emails.
type Notifier interface {
	NotifyCompanyRegistered(ctx context.Context, name, email string) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	dialer sender
	from   string
	admin  string
}

func NewSMTPNotifier(host string, port int, username, password, from, admin string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		admin:  admin,
	}
}

// NotifyCompanyRegistered tells the administrator address about a new
// company. The send is attempted once.
func (s *SMTPNotifier) NotifyCompanyRegistered(ctx context.Context, name, email string) error {
	if s.admin == "" {
		return errors.New("no administrator address configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", s.admin)
	msg.SetHeader("Subject", registrationSubject)
	msg.SetBody("text/plain", RegistrationBody(name, email))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func RegistrationBody(name, email string) string {
	clean := strings.NewReplacer("\r", " ", "\n", " ")
	return fmt.Sprintf(registrationBody, clean.Replace(name), clean.Replace(email))
}
