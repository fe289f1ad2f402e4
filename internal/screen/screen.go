package screen

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold work which must be
// released when they leave the stack.
type Closer interface {
	Close()
}

// Focuser is implemented by screens that reload when they become the
// active screen again.
type Focuser interface {
	Focus() tea.Cmd
}

// Services are the collaborators screens are built from.
type Services struct {
	Generator content.Generator
	Recorder  diagnostic.Recorder
	Progress  *progression.Service
	Lessons   *lesson.Flow
	User      identity.Identity
	Log       *logger.Logger
}

// Flusher is implemented by recorders that write in the background.
type Flusher interface {
	Flush(ctx context.Context) error
}

const flushTimeout = 3 * time.Second

// Flush waits briefly for queued writes so the next screen reads them.
func (s Services) Flush() {
	f, ok := s.Recorder.(Flusher)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := f.Flush(ctx); err != nil {
		s.Logger().Warn("flush pending writes failed", "error", err)
	}
}

// Logger returns Log, or a no-op logger when it is unset.
func (s Services) Logger() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}
