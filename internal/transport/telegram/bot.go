package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/service/agent"
	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	baseContextKey = "base_context"

	welcomeText     = "你好，我是小天 🌤️\n问我任意城市的天气、穿衣、出行或行李建议吧。输入 /help 查看命令。"
	unavailableText = "服务暂时不可用，请稍后再试"
)

type Handler interface {
	Handle(ctx context.Context, sessionID, text string) (string, error)
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	handler Handler
	sender  *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler Handler,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		handler: handler,
		sender:  newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.Allowed(c.Sender().ID) {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", func(c tele.Context) error {
		return c.Send(welcomeText)
	})
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	ctx = agent.ContextWithObserver(ctx, func(s agent.Step) {
		if s.State == agent.StateAwaitingObservation && s.Action != nil {
			_ = c.Notify(tele.Typing)
			logger.Debug().Str("tool", s.Action.Tool).Int64("chat", c.Chat().ID).Msg("tool step")
		}
	})

	reply, err := b.handler.Handle(ctx, sessionID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("session", sessionID).Msg("chat turn failed")
		return c.Send(unavailableText)
	}
	if reply == "" {
		return nil
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
}
