// Package smtpclient provides the outbound SMTP transport used by the
// gateway. The Dialer and Session interfaces form the seam for injecting
// a recording transport in tests; the real implementation wraps the
// emersion/go-smtp client with SASL PLAIN authentication.
package smtpclient

import (
	"bytes"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Session is one SMTP connection lifecycle. Implementations are not safe
// for concurrent use; each send operation owns its session exclusively.
type Session interface {
	// StartTLS upgrades the plaintext connection via the STARTTLS
	// extension. Must be called before Auth when TLS is requested.
	StartTLS(cfg *tls.Config) error
	// Auth authenticates the session with the given credentials.
	Auth(username, password string) error
	// Send transmits one message to the given recipients.
	Send(from string, to []string, msg []byte) error
	// Quit ends the session cleanly with the SMTP QUIT command and
	// closes the connection.
	Quit() error
	// Close tears down the connection without QUIT. Used on error paths.
	Close() error
}

// Dialer opens SMTP sessions.
type Dialer interface {
	Dial(addr string) (Session, error)
}

// NetDialer is the production Dialer backed by a TCP connection.
type NetDialer struct{}

// Dial connects to addr and returns a live Session.
func (NetDialer) Dial(addr string) (Session, error) {
	c, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &clientSession{client: c}, nil
}

// clientSession adapts *smtp.Client to the Session interface.
type clientSession struct {
	client *smtp.Client
}

func (s *clientSession) StartTLS(cfg *tls.Config) error {
	return s.client.StartTLS(cfg)
}

func (s *clientSession) Auth(username, password string) error {
	return s.client.Auth(sasl.NewPlainClient("", username, password))
}

func (s *clientSession) Send(from string, to []string, msg []byte) error {
	return s.client.SendMail(from, to, bytes.NewReader(msg))
}

func (s *clientSession) Quit() error {
	return s.client.Quit()
}

func (s *clientSession) Close() error {
	return s.client.Close()
}
