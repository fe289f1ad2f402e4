package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathmind/internal/onboarding"
)

const subjectsTimeout = 30 * time.Second

func (s *Server) handleLevels(c *gin.Context) {
	success(c, gin.H{"levels": onboarding.Levels()})
}

func (s *Server) handleDegrees(c *gin.Context) {
	level := c.Query("level")
	success(c, gin.H{"level": level, "degrees": onboarding.DegreesFor(level)})
}

func (s *Server) handleSubjects(c *gin.Context) {
	degree, err := onboarding.ValidateFreeText(c.Query("degree"))
	if err != nil {
		badRequest(c, "Please enter at least 3 characters.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), subjectsTimeout)
	defer cancel()

	subjects, fallback := onboarding.Subjects(ctx, s.deps.Generator, degree)
	if fallback {
		s.log.Warn("using fallback subjects", "degree", degree)
	}
	success(c, gin.H{"degree": degree, "subjects": subjects, "fallback": fallback})
}

func (s *Server) handleOnboardingTopics(c *gin.Context) {
	subject, err := onboarding.ValidateFreeText(c.Query("subject"))
	if err != nil {
		badRequest(c, "Please enter at least 3 characters.")
		return
	}
	success(c, gin.H{"subject": subject, "topics": onboarding.Topics(subject)})
}
