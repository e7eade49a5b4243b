package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/models"
	"github.com/mbcet/alumnimeet/internal/services"
)

const sendTimeout = 10 * time.Second

// Notifier posts a short summary of every stored registration to the
// organisers' Telegram chat.
type Notifier struct {
	b      *tgbot.Bot
	chatID int64
	log    zerolog.Logger
}

func NewNotifier(token string, chatID int64, log zerolog.Logger, opts ...tgbot.Option) (*Notifier, error) {
	opts = append([]tgbot.Option{tgbot.WithSkipGetMe()}, opts...)
	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	return &Notifier{b: b, chatID: chatID, log: log}, nil
}

func (n *Notifier) RegistrationStored(ctx context.Context, id string, rec models.Registration) error {
	_, err := n.b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      Message(id, rec),
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

// Hooks sends the notification in the background so the visitor never waits
// on Telegram. Failures are logged only.
func (n *Notifier) Hooks() form.Hooks {
	return form.Hooks{
		Submitted: func(ctx context.Context, id string, rec models.Registration) {
			go func() {
				ctx, cancel := context.WithTimeout(ctx, sendTimeout)
				defer cancel()
				if err := n.RegistrationStored(ctx, id, rec); err != nil {
					n.log.Warn().Err(err).Str("record_id", id).Msg("organiser notification failed")
				}
			}()
		},
	}
}

// Message renders the organiser summary as Telegram HTML.
func Message(id string, rec models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎓 <b>New registration</b> #%s\n", html.EscapeString(id))
	fmt.Fprintf(&b, "%s, %s batch of %s\n",
		html.EscapeString(rec.Name),
		html.EscapeString(rec.YearOfPassout),
		html.EscapeString(form.Label(form.CourseOptions, rec.CourseStudied)))
	if rec.Designation != "" {
		fmt.Fprintf(&b, "%s\n", html.EscapeString(rec.Designation))
	}
	if link := services.WhatsAppLink(rec.WhatsappNumber); link != "" {
		fmt.Fprintf(&b, "WhatsApp: <a href=\"%s\">%s</a>\n", link, html.EscapeString(rec.WhatsappNumber))
	}
	if rec.AttendingEvent {
		fmt.Fprintf(&b, "Attending with %d guest(s), %s\n", rec.AccompanyCount,
			html.EscapeString(form.Label(form.FoodOptions, rec.FoodPreference)))
	} else {
		b.WriteString("Not attending\n")
	}
	if len(rec.Contributions) > 0 {
		labels := make([]string, 0, len(rec.Contributions))
		for _, c := range rec.Contributions {
			labels = append(labels, html.EscapeString(form.Label(form.ContributionOptions, c)))
		}
		fmt.Fprintf(&b, "Can help with: %s\n", strings.Join(labels, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
