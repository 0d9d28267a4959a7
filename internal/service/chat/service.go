package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

type Runner interface {
	RunTurn(ctx context.Context, utterance string, history []core.Message) (string, error)
}

type SessionManager interface {
	Do(ctx context.Context, id string, fn func(s *core.Session) error) error
}

// Service is what transports talk to: one call per user message.
type Service struct {
	sessions    SessionManager
	agent       Runner
	router      core.CmdRouter
	defaultCity string
}

func NewService(sessions SessionManager, agent Runner, router core.CmdRouter, defaultCity string) *Service {
	return &Service{
		sessions:    sessions,
		agent:       agent,
		router:      router,
		defaultCity: defaultCity,
	}
}

// Handle answers text for the given session. Slash commands are routed
// before the session is locked; everything else is one agent turn.
func (s *Service) Handle(ctx context.Context, sessionID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	if s.router != nil {
		if reply, handled := s.router.Execute(ctx, sessionID, text); handled {
			return reply, nil
		}
	}

	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()
	ctx = logger.WithContext(ctx)

	var reply string
	err := s.sessions.Do(ctx, sessionID, func(sess *core.Session) error {
		city := s.resolveCity(sess, text)
		logger.Debug().Str("city", city).Msg("resolved city")

		answer, err := s.agent.RunTurn(ctx, withCityHint(city, text), sess.Messages)
		if err != nil {
			return err
		}

		sess.Messages = append(sess.Messages,
			core.Message{Role: core.RoleUser, Content: text},
			core.Message{Role: core.RoleAssistant, Content: answer},
		)
		reply = answer
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to handle message: %w", err)
	}
	return reply, nil
}

// resolveCity prefers a city named in the message, then the session's last
// city, then the default. A named city becomes the session's last city.
func (s *Service) resolveCity(sess *core.Session, text string) string {
	if city := ExtractCity(text); city != "" {
		sess.LastCity = city
		return city
	}
	if sess.LastCity != "" {
		return sess.LastCity
	}
	return s.defaultCity
}

func withCityHint(city, text string) string {
	if city == "" {
		return text
	}
	return fmt.Sprintf("（当前关注城市：%s）\n%s", city, text)
}
