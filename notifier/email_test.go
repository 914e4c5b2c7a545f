package notifier

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"

	"game-pulse/catalog"
	"game-pulse/config"
)

var digestNow = time.Date(2026, time.October, 1, 8, 0, 0, 0, time.UTC)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func testConfig() config.EmailConfig {
	return config.EmailConfig{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       2525,
		SMTPUsername:   "api",
		SenderEmail:    "digest@example.com",
		SenderPassword: "secret-token-1234",
		RecipientEmail: "reader@example.com",
	}
}

func newTestNotifier(t *testing.T, cfg config.EmailConfig) *EmailNotifier {
	t.Helper()
	n, err := NewEmailNotifier(cfg, "https://games.example.com", zap.NewNop())
	require.NoError(t, err)
	return n
}

func TestNewDigest(t *testing.T) {
	d := NewDigest(catalog.MustDefault(), digestNow, "")

	assert.Equal(t, "Game Pulse Q4 2026 digest: 17 releases tracked", d.Subject)
	assert.Equal(t, "1 October 2026", d.Date)
	require.Len(t, d.Top, TopPicks)
	assert.Equal(t, "Dragonfall Chronicles", d.Top[0].Title)
	assert.Len(t, d.Roadmap, 4)
	assert.Equal(t, 17, d.Stats.Count)

	var next []string
	for _, g := range d.NextUp {
		next = append(next, g.Title)
	}
	assert.Equal(t, []string{"Ashen Reliquary", "Hollow Signal", "Crimson Veil"}, next)
}

func TestNextUpIncludesToday(t *testing.T) {
	games := catalog.MustDefault().Games()
	next := nextUp(games, time.Date(2026, time.December, 3, 18, 0, 0, 0, time.UTC), 5)

	require.Len(t, next, 1)
	assert.Equal(t, "Orbital Frontier", next[0].Title)
	assert.Empty(t, nextUp(games, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), 5))
}

func TestRender(t *testing.T) {
	n := newTestNotifier(t, testConfig())
	plain, html, err := n.Render(NewDigest(catalog.MustDefault(), digestNow, "https://games.example.com"))
	require.NoError(t, err)

	assert.Contains(t, plain, "1. Dragonfall Chronicles (96/100), Emberforge Studios, 19 February 2026")
	assert.Contains(t, plain, "Q3 2026\n")
	assert.Contains(t, plain, "Full guide: https://games.example.com")
	assert.Contains(t, html, "<h2>Most anticipated</h2>")
	assert.Contains(t, html, `<td class="score">96</td>`)
	assert.Contains(t, html, "<h3>Q4 2026</h3>")
}

func TestRenderEmptyQuarter(t *testing.T) {
	c, err := catalog.New([]catalog.Game{{
		Title:       "Only Winter",
		Developer:   "Frost",
		ReleaseDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Platforms:   []string{"PC"},
		Genres:      []catalog.Genre{catalog.GenreIndie},
		HypeScore:   40,
		Summary:     "Cold",
	}})
	require.NoError(t, err)

	n := newTestNotifier(t, testConfig())
	plain, html, err := n.Render(NewDigest(c, digestNow, ""))
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(plain, "No major announcements yet"))
	assert.Contains(t, html, "No major announcements yet")
	assert.NotContains(t, plain, "COMING NEXT")
	assert.NotContains(t, plain, "Full guide")
}

func TestComposeDigest(t *testing.T) {
	n := newTestNotifier(t, testConfig())
	m, err := n.ComposeDigest(catalog.MustDefault(), digestNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"digest@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"reader@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Game Pulse Q4 2026 digest: 17 releases tracked"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
}

func TestSend(t *testing.T) {
	sender := &recordingSender{}
	n := newTestNotifier(t, testConfig()).WithSender(sender)

	require.NoError(t, n.NotifyDigest(catalog.MustDefault(), digestNow))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"reader@example.com"}, sender.sent[0].GetHeader("To"))
}

func TestSendErrors(t *testing.T) {
	boom := errors.New("connection refused")
	n := newTestNotifier(t, testConfig()).WithSender(&recordingSender{err: boom})
	assert.ErrorIs(t, n.NotifyDigest(catalog.MustDefault(), digestNow), boom)

	cfg := testConfig()
	cfg.SMTPHost = ""
	sender := &recordingSender{}
	n = newTestNotifier(t, cfg).WithSender(sender)
	assert.ErrorContains(t, n.NotifyDigest(catalog.MustDefault(), digestNow), "email not configured")
	assert.Empty(t, sender.sent)
}
