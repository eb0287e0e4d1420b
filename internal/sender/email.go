package sender

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"shop-service/config"
	"shop-service/internal/producer"

	gopkgmail "gopkg.in/gomail.v2"
)

type EmailSender struct {
	cfg  config.SMTP
	send func(m *gopkgmail.Message) error
}

func NewEmailSender(cfg config.SMTP) *EmailSender {
	s := &EmailSender{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

func (s *EmailSender) SendEmail(n producer.EmailMessage) error {
	htmlBody, plainBody, err := s.Render(n.Template, n.Data)
	if err != nil {
		return err
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if strings.Contains(htmlBody, "cid:logo") {
		iconPath := filepath.Join(s.cfg.TMPLDir, "icon.png")
		if _, errStat := os.Stat(iconPath); errStat == nil {
			m.Embed(iconPath, gopkgmail.SetHeader(map[string][]string{"Content-ID": {"<logo>"}}))
		}
	}

	return s.send(m)
}

// Render собирает html и текстовую версии письма из {name}.html и {name}.txt
func (s *EmailSender) Render(name string, data map[string]any) (string, string, error) {
	if data == nil {
		data = map[string]any{}
	}
	htmlBody, err := s.renderHTML(name, data)
	if err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.renderPlain(name, data)
	if err != nil {
		return "", "", fmt.Errorf("render plain: %w", err)
	}
	return htmlBody, plainBody, nil
}

func (s *EmailSender) dialAndSend(m *gopkgmail.Message) error {
	d := gopkgmail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.SSL = s.cfg.SSL
	return d.DialAndSend(m)
}

func (s *EmailSender) renderHTML(name string, data map[string]any) (string, error) {
	content, err := s.readTemplate(name + ".html")
	if err != nil {
		return "", err
	}
	tmpl, err := htmltemplate.New(name).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// текстовая часть рендерится без html-экранирования
func (s *EmailSender) renderPlain(name string, data map[string]any) (string, error) {
	content, err := s.readTemplate(name + ".txt")
	if err != nil {
		return "", err
	}
	tmpl, err := texttemplate.New(name).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *EmailSender) readTemplate(file string) (string, error) {
	// имя шаблона приходит из сообщения, за пределы TMPLDir не выходим
	if file != filepath.Base(file) {
		return "", fmt.Errorf("invalid template name %q", file)
	}
	content, err := os.ReadFile(filepath.Join(s.cfg.TMPLDir, file))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
