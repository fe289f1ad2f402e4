package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/progression"
)

// Client-side paths used in redirects.
const topicEntryPath = "/topic"

func dashboardPath(topic string) string {
	return "/dashboard/" + url.PathEscape(topic)
}

type lessonView struct {
	Topic   string                 `json:"topic"`
	Module  progression.ModuleView `json:"module"`
	Total   int                    `json:"total"`
	HasNext bool                   `json:"has_next"`
	Review  bool                   `json:"review"`
	Phase   string                 `json:"phase"`

	Explanation string   `json:"explanation"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
}

func viewLesson(l *lesson.Lesson) lessonView {
	return lessonView{
		Topic:       l.Topic,
		Module:      l.Module,
		Total:       l.Total,
		HasNext:     l.HasNext(),
		Review:      l.Review,
		Phase:       l.Phase().String(),
		Explanation: l.Content.Explanation,
		CodeSnippet: l.Content.CodeSnippet,
		Question:    l.Content.Practice.Question,
		Options:     append([]string(nil), l.Content.Practice.Options...),
	}
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

func (s *Server) handleTopics(c *gin.Context) {
	topics, err := s.deps.Progress.Topics(c.Request.Context(), currentIdentity(c))
	if err != nil {
		s.log.Warn("list topics failed", "error", err)
		topics = nil
	}
	if topics == nil {
		topics = []string{}
	}
	success(c, gin.H{"topics": topics})
}

func (s *Server) handleDashboard(c *gin.Context) {
	topic := c.Param("topic")
	d, err := s.deps.Progress.Dashboard(c.Request.Context(), currentIdentity(c), topic)
	switch {
	case errors.Is(err, progression.ErrNoLearningPath):
		redirect(c, Redirect{To: "topic", Path: topicEntryPath, Reason: "no learning path"})
	case err != nil:
		s.log.Error("load dashboard failed", "topic", topic, "error", err)
		internalError(c)
	default:
		success(c, d)
	}
}

func lessonKey(user, topic string, index int) string {
	return user + "|" + topic + "|" + strconv.Itoa(index)
}

// lesson returns the opened lesson for the route, opening it when the
// registry has none. It writes the response and returns false when the
// lesson cannot be shown.
func (s *Server) lesson(c *gin.Context, reuse bool) (*lesson.Lesson, bool) {
	topic := c.Param("topic")
	id := currentIdentity(c)

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		redirect(c, Redirect{To: "dashboard", Path: dashboardPath(topic), Reason: "module out of range"})
		return nil, false
	}

	key := lessonKey(id.String(), topic, index)
	if reuse {
		if l, ok := s.lessons.Get(key); ok {
			return l, true
		}
	}

	review, _ := strconv.ParseBool(c.Query("completed"))
	l, err := s.deps.Lessons.Open(context.WithoutCancel(c.Request.Context()), id, topic, index, review)
	switch {
	case err == nil:
		s.lessons.Put(key, l)
		return l, true
	case errors.Is(err, lesson.ErrOutOfRange):
		redirect(c, Redirect{To: "dashboard", Path: dashboardPath(topic), Reason: "module out of range"})
	case errors.Is(err, lesson.ErrLocked):
		redirect(c, Redirect{To: "dashboard", Path: dashboardPath(topic), Reason: "module locked"})
	case errors.Is(err, lesson.ErrNoLearningPath):
		redirect(c, Redirect{To: "topic", Path: topicEntryPath, Reason: "no learning path"})
	case errors.Is(err, lesson.ErrContentUnavailable):
		fail(c, http.StatusBadGateway, "We couldn't load this lesson. Please try again.")
	default:
		s.log.Error("open lesson failed", "topic", topic, "index", index, "error", err)
		internalError(c)
	}
	return nil, false
}

func (s *Server) handleOpenLesson(c *gin.Context) {
	l, ok := s.lesson(c, false)
	if !ok {
		return
	}
	success(c, viewLesson(l))
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Please choose an option.")
		return
	}
	l, ok := s.lesson(c, true)
	if !ok {
		return
	}

	if err := l.StartPractice(); err != nil {
		s.lessonError(c, err)
		return
	}
	if err := l.Select(req.Option); err != nil {
		s.lessonError(c, err)
		return
	}
	g, err := l.Submit()
	if err != nil {
		s.lessonError(c, err)
		return
	}

	data := gin.H{
		"correct":     g.Correct,
		"explanation": g.Explanation,
		"attempts":    l.Attempts(),
		"phase":       l.Phase().String(),
	}
	if g.Correct {
		data["advance_after_ms"] = g.AdvanceAfter.Milliseconds()
	}
	success(c, data)
}

func (s *Server) handleComplete(c *gin.Context) {
	l, ok := s.lesson(c, true)
	if !ok {
		return
	}
	tip, err := l.Complete(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		s.lessonError(c, err)
		return
	}
	if !l.Review {
		s.flush(c.Request.Context())
	}
	success(c, gin.H{
		"tip":      tip,
		"review":   l.Review,
		"redirect": Redirect{To: "dashboard", Path: dashboardPath(l.Topic), Reason: "module completed"},
	})
}

func (s *Server) lessonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lesson.ErrNoSelection):
		badRequest(c, "Please choose an option.")
	case errors.Is(err, lesson.ErrUnknownOption):
		badRequest(c, "That is not one of the options.")
	case errors.Is(err, lesson.ErrInvalidTransition):
		fail(c, http.StatusConflict, "This question was already answered.")
	default:
		s.log.Error("lesson operation failed", "error", err)
		internalError(c)
	}
}
