package notifier

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wneessen/go-mail"

	"github.com/0x0BSoD/rss2epub/internal/config"
)

const (
	EPUBContentType = "application/epub+zip"

	implicitTLSPort = 465
	bodyText        = "Your RSS feed compilation is attached."
)

// Sender delivers a built message. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Notifier struct {
	cfg    config.Email
	sender Sender
	log    *slog.Logger
}

func New(cfg config.Email, log *slog.Logger) (*Notifier, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithSender(cfg, client, log), nil
}

func NewWithSender(cfg config.Email, sender Sender, log *slog.Logger) *Notifier {
	return &Notifier{cfg: cfg, sender: sender, log: log}
}

func newClient(cfg config.Email) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.SMTPPort == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.SMTPServer, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client for %s: %w", cfg.SMTPServer, err)
	}

	return client, nil
}

// Send mails the file at path as an attachment. The file is left in place either way.
func (n *Notifier) Send(ctx context.Context, path string) error {
	msg, err := n.Message(path)
	if err != nil {
		return err
	}

	n.log.InfoContext(ctx, "sending book", "to", n.cfg.To, "relay", n.cfg.SMTPServer, "file", path)

	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", n.cfg.SMTPServer, err)
	}

	return nil
}

// Message builds the outgoing message without touching the network.
func (n *Notifier) Message(path string) (*mail.Msg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", n.cfg.From, err)
	}
	if err := msg.To(n.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid to address %q: %w", n.cfg.To, err)
	}

	msg.Subject(n.cfg.Subject)
	msg.SetBodyString(mail.TypeTextPlain, bodyText)

	if err := msg.AttachReader(
		filepath.Base(path),
		bytes.NewReader(data),
		mail.WithFileContentType(EPUBContentType),
	); err != nil {
		return nil, fmt.Errorf("attach %s: %w", path, err)
	}

	return msg, nil
}
