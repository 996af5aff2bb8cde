package mail

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/charlesng35/facultysite/pkg/logger"
)

// LogMailer writes messages to the application log instead of delivering them.
// It is the development default.
type LogMailer struct {
	settings Settings
}

func NewLogMailer(settings Settings) *LogMailer {
	return &LogMailer{settings: settings}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	env, err := prepare(m.settings, msg)
	if err != nil {
		return err
	}
	logger.WithModule("mail").Info("email not delivered (log driver)",
		zap.String("from", env.from),
		zap.Strings("to", env.to),
		zap.String("subject", env.subject),
		zap.String("body", env.text),
	)
	return nil
}

// Recorder keeps sent messages in memory. Err, when set, is returned from Send
// after the message has been recorded.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.Err
}

// Messages returns a copy of every message passed to Send.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Message{}, false
	}
	return r.sent[len(r.sent)-1], true
}
