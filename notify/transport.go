package notify

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Cc      []string `json:"cc"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Transport delivers a message through the given relay host. Send blocks
// until the relay accepted or refused the message.
type Transport interface {
	Send(ctx context.Context, relayHost string, msg *Message) error
}

type SMTPConfig struct {
	Port     int
	Username string
	Password string
}

const DEFAULT_SMTP_PORT int = 25

type SMTPTransport struct {
	conf SMTPConfig
}

func NewSMTPTransport(conf SMTPConfig) *SMTPTransport {
	if conf.Port == 0 {
		conf.Port = DEFAULT_SMTP_PORT
	}
	return &SMTPTransport{conf: conf}
}

func (t *SMTPTransport) Send(ctx context.Context, relayHost string, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	host, port, err := t.hostPort(relayHost)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	d := gomail.NewDialer(host, port, t.conf.Username, t.conf.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending through %s:%d: %w", host, port, err)
	}
	return nil
}

// hostPort accepts "host" or "host:port".
func (t *SMTPTransport) hostPort(relayHost string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(relayHost)
	if err != nil {
		return relayHost, t.conf.Port, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid relay port in %q", relayHost)
	}
	return host, port, nil
}
