package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/onboarding"
)

type startRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type selectRequest struct {
	Option string `json:"option" binding:"required"`
}

func (s *Server) newSession(c *gin.Context) *diagnostic.Session {
	sess := diagnostic.NewSession(currentIdentity(c), s.deps.Generator, s.deps.Recorder, s.deps.Log)
	if m := s.deps.Metrics; m != nil {
		sess.OnTransition(func(from, to diagnostic.Stage, elapsed time.Duration) {
			m.ObserveTransition(from.String(), to.String(), elapsed)
		})
	}
	return sess
}

func (s *Server) handleStartDiagnostic(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please enter a topic.")
		return
	}
	topic, err := onboarding.ValidateFreeText(req.Topic)
	if err != nil {
		badRequest(c, "Please enter at least 3 characters.")
		return
	}

	sess := s.newSession(c)
	busy := func(old *diagnostic.Session) bool { return old.Busy() }
	if _, ok := s.diagnostics.PutUnless(currentIdentity(c).String(), sess, busy); !ok {
		fail(c, http.StatusConflict, diagnostic.UserMessage(diagnostic.ErrBusy))
		return
	}
	s.reportSessions()

	// A client disconnect must not cancel a generation the session is
	// already committed to.
	err = sess.StartTest(context.WithoutCancel(c.Request.Context()), topic)
	view := sess.View()
	switch {
	case err == nil:
		created(c, view)
	case errors.Is(err, diagnostic.ErrStale):
		fail(c, http.StatusConflict, "This test was cancelled.")
	default:
		s.log.Warn("diagnostic start failed", "session", sess.ID, "topic", topic, "error", err)
		failWith(c, http.StatusBadGateway, diagnostic.UserMessage(err), view)
	}
}

// session returns the caller's session when it matches the :id param.
func (s *Server) session(c *gin.Context) (*diagnostic.Session, bool) {
	sess, ok := s.diagnostics.Get(currentIdentity(c).String())
	if !ok || sess.ID != c.Param("id") {
		notFound(c)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetDiagnostic(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	success(c, sess.View())
}

func (s *Server) handleSelect(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please choose an option.")
		return
	}
	if err := sess.SelectOption(req.Option); err != nil {
		s.diagnosticError(c, sess, err)
		return
	}
	success(c, sess.View())
}

func (s *Server) handleConfirm(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.ConfirmAnswer(context.WithoutCancel(c.Request.Context())); err != nil {
		s.diagnosticError(c, sess, err)
		return
	}
	view := sess.View()
	if view.Stage == diagnostic.StageResults.String() {
		s.flush(c.Request.Context())
	}
	success(c, view)
}

func (s *Server) handleReset(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.Reset(); err != nil {
		s.diagnosticError(c, sess, err)
		return
	}
	success(c, sess.View())
}

func (s *Server) handleAbandon(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.diagnostics.Delete(sess.User.String())
	s.reportSessions()
	success(c, sess.View())
}

func (s *Server) diagnosticError(c *gin.Context, sess *diagnostic.Session, err error) {
	switch {
	case errors.Is(err, diagnostic.ErrNoSelection):
		badRequest(c, "Please choose an option.")
	case errors.Is(err, diagnostic.ErrUnknownOption):
		badRequest(c, "That is not one of the options.")
	case errors.Is(err, diagnostic.ErrBusy),
		errors.Is(err, diagnostic.ErrInvalidTransition),
		errors.Is(err, diagnostic.ErrStale):
		failWith(c, http.StatusConflict, diagnostic.UserMessage(err), sess.View())
	case errors.Is(err, diagnostic.ErrAnalysisFailed):
		failWith(c, http.StatusBadGateway, diagnostic.UserMessage(err), sess.View())
	default:
		s.log.Error("diagnostic operation failed", "session", sess.ID, "error", err)
		internalError(c)
	}
}

// flush lets a background recorder store the learning path before the
// client asks for the dashboard.
func (s *Server) flush(ctx context.Context) {
	f, ok := s.deps.Recorder.(interface{ Flush(context.Context) error })
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := f.Flush(ctx); err != nil {
		s.log.Warn("flush pending writes failed", "error", err)
	}
}
