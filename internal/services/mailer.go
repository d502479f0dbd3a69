package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

// Recipient identifies the owner a cleanup notification goes to.
type Recipient struct {
	Name  string
	Email string
}

// ExpiredMapping is the snapshot of a deleted mapping carried in the
// notification body. Captured before deletion, since the row is gone by the
// time the message is sent.
type ExpiredMapping struct {
	Key    string
	Target string
	Visits uint
}

// Dispatcher delivers one notification per owner with their deleted
// mappings. Delivery failures are the dispatcher's concern; the cleanup job
// only logs them.
type Dispatcher interface {
	Send(ctx context.Context, to Recipient, mappings []ExpiredMapping) error
}

const expiredSubject = "[urlcut] Expired URLs"

var expiredBodyTmpl = template.Must(template.New("expired").Parse(
	`Hi {{.Name}},

the following shortened URLs have expired and were removed:
{{range .Mappings}}
  {{.Key}} -> {{.Target}} ({{.Visits}} visits)
{{end}}
Thanks for using urlcut.
`))

// SMTPDispatcher sends plaintext expiry notifications over SMTP.
type SMTPDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPDispatcher(host string, port int, username, password, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (d *SMTPDispatcher) Send(ctx context.Context, to Recipient, mappings []ExpiredMapping) error {
	var body bytes.Buffer
	err := expiredBodyTmpl.Execute(&body, struct {
		Name     string
		Mappings []ExpiredMapping
	}{Name: to.Name, Mappings: mappings})
	if err != nil {
		return fmt.Errorf("render notification body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", d.from)
	msg.SetHeader("To", to.Email)
	msg.SetHeader("Subject", expiredSubject)
	msg.SetBody("text/plain", body.String())

	// gomail has no context support, so the send runs in a goroutine and
	// the caller's deadline wins.
	done := make(chan error, 1)
	go func() {
		done <- d.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
