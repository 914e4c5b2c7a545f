package notifier

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"slices"
	"text/template"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"

	"game-pulse/catalog"
	"game-pulse/config"
	"game-pulse/explorer"
	"game-pulse/site"
)

//go:embed templates/digest.html templates/digest.txt
var templateFS embed.FS

// TopPicks is the number of games in the digest's headline table.
const TopPicks = 3

// NextUpSize caps the "coming next" list.
const NextUpSize = 3

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Digest is the data rendered into the email.
type Digest struct {
	Subject string
	Date    string
	SiteURL string
	Stats   explorer.Stats
	Top     []catalog.Game
	NextUp  []catalog.Game
	Roadmap []explorer.QuarterGroup
}

// EmailNotifier handles sending the digest email
type EmailNotifier struct {
	cfg          config.EmailConfig
	siteURL      string
	sender       Sender
	logger       *zap.Logger
	htmlTemplate *htmltemplate.Template
	textTemplate *template.Template
}

// NewEmailNotifier creates a notifier. siteURL is linked from the footer
// when set.
func NewEmailNotifier(cfg config.EmailConfig, siteURL string, logger *zap.Logger) (*EmailNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	funcs := map[string]any{
		"longDate":   site.LongDate,
		"shortDate":  site.ShortDate,
		"joinGenres": site.JoinGenres,
		"inc":        func(i int) int { return i + 1 },
	}

	htmlTmpl, err := htmltemplate.New("digest.html").Funcs(funcs).ParseFS(templateFS, "templates/digest.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	textTmpl, err := template.New("digest.txt").Funcs(funcs).ParseFS(templateFS, "templates/digest.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse plain text template: %w", err)
	}

	logger.Debug("Email configuration",
		zap.String("host", cfg.SMTPHost),
		zap.Int("port", cfg.SMTPPort),
		zap.String("sender", cfg.SenderEmail),
		zap.String("token", cfg.MaskedPassword()),
		zap.String("recipient", cfg.RecipientEmail))

	return &EmailNotifier{
		cfg:          cfg,
		siteURL:      siteURL,
		sender:       gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SenderPassword),
		logger:       logger,
		htmlTemplate: htmlTmpl,
		textTemplate: textTmpl,
	}, nil
}

// WithSender replaces the SMTP dialer.
func (n *EmailNotifier) WithSender(s Sender) *EmailNotifier {
	n.sender = s
	return n
}

// NewDigest collects the digest views for a catalog as of now.
func NewDigest(c *catalog.Catalog, now time.Time, siteURL string) Digest {
	games := c.Games()
	return Digest{
		Subject: fmt.Sprintf("Game Pulse %s digest: %d releases tracked", explorer.QuarterOf(now), len(games)),
		Date:    site.LongDate(now),
		SiteURL: siteURL,
		Stats:   explorer.Summarize(games),
		Top:     explorer.TopHype(games, TopPicks),
		NextUp:  nextUp(games, now, NextUpSize),
		Roadmap: explorer.Roadmap(games, catalog.Quarters()),
	}
}

// nextUp returns the n earliest games released on or after now's date.
func nextUp(games []catalog.Game, now time.Time, n int) []catalog.Game {
	today := now.UTC().Truncate(24 * time.Hour)
	var upcoming []catalog.Game
	for _, g := range games {
		if !g.ReleaseDate.Before(today) {
			upcoming = append(upcoming, g)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b catalog.Game) int {
		return a.ReleaseDate.Compare(b.ReleaseDate)
	})
	if len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// Render returns the plain text and HTML bodies of a digest.
func (n *EmailNotifier) Render(d Digest) (plain, html string, err error) {
	var text, page bytes.Buffer
	if err := n.textTemplate.Execute(&text, d); err != nil {
		return "", "", fmt.Errorf("failed to render plain text digest: %w", err)
	}
	if err := n.htmlTemplate.Execute(&page, d); err != nil {
		return "", "", fmt.Errorf("failed to render email template: %w", err)
	}
	return text.String(), page.String(), nil
}

// ComposeDigest builds the digest message for the catalog.
func (n *EmailNotifier) ComposeDigest(c *catalog.Catalog, now time.Time) (*gomail.Message, error) {
	d := NewDigest(c, now, n.siteURL)
	plain, html, err := n.Render(d)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	if n.cfg.SenderEmail != "" {
		m.SetHeader("From", n.cfg.SenderEmail)
	}
	if n.cfg.RecipientEmail != "" {
		m.SetHeader("To", n.cfg.RecipientEmail)
	}
	m.SetHeader("Subject", d.Subject)
	m.SetDateHeader("Date", now)
	m.SetBody("text/plain", plain)
	m.AddAlternative("text/html", html)
	return m, nil
}

// Send delivers a composed message over SMTP.
func (n *EmailNotifier) Send(m *gomail.Message) error {
	if !n.cfg.Enabled() {
		return fmt.Errorf("email not configured: EMAIL_SMTP_HOST and EMAIL_RECIPIENT are required")
	}
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.Info("Digest sent", zap.String("recipient", n.cfg.RecipientEmail))
	return nil
}

// NotifyDigest composes and sends the digest.
func (n *EmailNotifier) NotifyDigest(c *catalog.Catalog, now time.Time) error {
	m, err := n.ComposeDigest(c, now)
	if err != nil {
		return err
	}
	return n.Send(m)
}
