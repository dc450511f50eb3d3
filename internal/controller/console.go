package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Freeeeeet/testdrive_bot/internal/controller/state"
	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsoleChat диалог с ассистентом в терминале
type ConsoleChat struct {
	engine   *dialogue.Engine
	sessions *state.Manager
	logger   *zap.Logger
}

func NewConsoleChat(engine *dialogue.Engine, sessions *state.Manager, logger *zap.Logger) *ConsoleChat {
	return &ConsoleChat{
		engine:   engine,
		sessions: sessions,
		logger:   logger,
	}
}

// Run читает реплики из in и пишет ответы в out до quit/exit/bye, EOF или отмены ctx.
// phone, если задан, используется как контакт клиента.
func (c *ConsoleChat) Run(ctx context.Context, in io.Reader, out io.Writer, phone string) error {
	id := "console:" + uuid.NewString()
	defer c.sessions.Clear(id)

	if phone != "" {
		_ = c.sessions.Do(id, func(sess *dialogue.Session) error {
			sess.Contact.Phone = phone
			return nil
		})
	}

	fmt.Fprintf(out, "Assistant: %s\n", c.engine.Greeting())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isFarewell(line) {
			fmt.Fprintf(out, "Assistant: %s\n", dialogue.Farewell())
			return nil
		}

		var reply string
		err := c.sessions.Do(id, func(sess *dialogue.Session) error {
			var err error
			reply, err = c.engine.Handle(ctx, sess, line)
			return err
		})
		if err != nil {
			c.logger.Error("Dialogue turn failed", zap.String("session_id", id), zap.Error(err))
		}

		fmt.Fprintf(out, "Assistant: %s\n", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintf(out, "\nAssistant: %s\n", dialogue.Farewell())
	return nil
}

func isFarewell(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit", "bye":
		return true
	default:
		return false
	}
}
