// Package progression derives module status and badges for a learning
// path and assembles the per-topic dashboard.
package progression

import (
	"math"
	"strings"

	"github.com/abhisek/pathmind/internal/content"
)

// Status is where a module stands for the learner.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusCompleted Status = "completed"
)

// Badge highlights a module on the dashboard.
type Badge string

const (
	BadgeNone        Badge = "none"
	BadgeStrength    Badge = "strength"
	BadgeWeakness    Badge = "weakness"
	BadgeRecommended Badge = "recommended"
)

// DefaultDifficulty is shown for every module; paths carry no per-module
// difficulty.
const DefaultDifficulty = "Medium"

// ModuleView is the derived, never-stored view of one module.
type ModuleView struct {
	Index       int    `json:"index"`
	Step        string `json:"step"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Badge       Badge  `json:"badge"`
	Difficulty  string `json:"difficulty"`
}

// DeriveModuleViews computes status and badge for each module, in order.
//
// A module is available when it is first or its immediate predecessor is
// completed. Only the one predecessor is inspected. A strength or weakness
// that is a substring of the step or description sets the badge, with
// weakness winning when both match. The first module is badged
// recommended while it is incomplete. Blank strengths and weaknesses are
// ignored since they would match everything.
//
// The function is pure: identical inputs yield identical output.
func DeriveModuleViews(modules []content.Module, strengths, weaknesses []string, completed map[string]bool) []ModuleView {
	views := make([]ModuleView, len(modules))
	for i, m := range modules {
		isCompleted := completed[m.Step]
		isAvailable := i == 0 || completed[modules[i-1].Step]

		status := StatusLocked
		switch {
		case isCompleted:
			status = StatusCompleted
		case isAvailable:
			status = StatusAvailable
		}

		badge := BadgeNone
		if matchesAny(strengths, m) {
			badge = BadgeStrength
		}
		if matchesAny(weaknesses, m) {
			badge = BadgeWeakness
		}
		if i == 0 && !isCompleted {
			badge = BadgeRecommended
		}

		views[i] = ModuleView{
			Index:       i,
			Step:        m.Step,
			Description: m.Description,
			Status:      status,
			Badge:       badge,
			Difficulty:  DefaultDifficulty,
		}
	}
	return views
}

func matchesAny(needles []string, m content.Module) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(m.Step, n) || strings.Contains(m.Description, n) {
			return true
		}
	}
	return false
}

// CompletedSet builds the lookup set DeriveModuleViews expects.
func CompletedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Summary is the dashboard's progress line.
type Summary struct {
	CompletedCount int `json:"completed_count"`
	TotalModules   int `json:"total_modules"`
	Percent        int `json:"percent"`
}

// Summarize counts completed views. Percent is rounded and 0 for an
// empty path.
func Summarize(views []ModuleView) Summary {
	s := Summary{TotalModules: len(views)}
	for _, v := range views {
		if v.Status == StatusCompleted {
			s.CompletedCount++
		}
	}
	if s.TotalModules > 0 {
		s.Percent = int(math.Round(float64(s.CompletedCount) * 100 / float64(s.TotalModules)))
	}
	return s
}
