package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/store"
)

// ErrNoLearningPath means the learner has no path for the topic yet.
var ErrNoLearningPath = errors.New("progression: no learning path for topic")

// Dashboard is everything the per-topic dashboard shows.
type Dashboard struct {
	Topic     string            `json:"topic"`
	Analysis  *content.Analysis `json:"analysis"`
	Modules   []ModuleView      `json:"modules"`
	CreatedAt time.Time         `json:"created_at"`
	Summary
}

// Module returns the view at index, or false when out of range.
func (d *Dashboard) Module(index int) (ModuleView, bool) {
	if index < 0 || index >= len(d.Modules) {
		return ModuleView{}, false
	}
	return d.Modules[index], true
}

// Service reads the learner's path and completions.
type Service struct {
	paths    store.LearningPathRepo
	progress store.ProgressRepo
	log      *logger.Logger
}

// NewService creates a Service. log may be nil.
func NewService(paths store.LearningPathRepo, progress store.ProgressRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{paths: paths, progress: progress, log: log}
}

// Dashboard loads the latest path for topic and the learner's completed
// modules concurrently, then derives the module views. A failed
// completion read is logged and treated as no completions.
func (s *Service) Dashboard(ctx context.Context, id identity.Identity, topic string) (*Dashboard, error) {
	var (
		lp   *store.LearningPath
		done []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lp, err = s.paths.LatestLearningPath(gctx, id.String(), topic)
		if err != nil {
			return fmt.Errorf("load learning path: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ids, err := s.progress.CompletedModules(gctx, id.String())
		if err != nil {
			s.log.Warn("load completed modules failed", "user", id.String(), "error", err)
			return nil
		}
		done = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if lp == nil {
		return nil, ErrNoLearningPath
	}

	an := analysisOf(lp)
	views := DeriveModuleViews(an.LearningPath, an.Strengths, an.Weaknesses, CompletedSet(done))
	return &Dashboard{
		Topic:     lp.Topic,
		Analysis:  an,
		Modules:   views,
		CreatedAt: lp.CreatedAt,
		Summary:   Summarize(views),
	}, nil
}

// Topics lists the learner's topics, most recent first.
func (s *Service) Topics(ctx context.Context, id identity.Identity) ([]string, error) {
	topics, err := s.paths.Topics(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func analysisOf(lp *store.LearningPath) *content.Analysis {
	modules := make([]content.Module, len(lp.Modules))
	for i, m := range lp.Modules {
		modules[i] = content.Module{Step: m.Step, Description: m.Description}
	}
	return &content.Analysis{
		Strengths:    lp.Strengths,
		Weaknesses:   lp.Weaknesses,
		LearningPath: modules,
		OverallScore: lp.OverallScore,
	}
}
