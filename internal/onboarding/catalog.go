// Package onboarding holds the education catalogue that leads a new
// learner from their education level to a first topic.
package onboarding

import (
	"context"
	"errors"
	"strings"
)

// MinFreeTextLen is the shortest free-text entry accepted, after trimming.
const MinFreeTextLen = 3

// OtherOption opens free-text entry for degrees and subjects.
const OtherOption = "Other"

// ErrTooShort rejects free text before any network call is made.
var ErrTooShort = errors.New("onboarding: entry must be at least 3 characters")

// ValidateFreeText trims s and checks its length.
func ValidateFreeText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < MinFreeTextLen {
		return "", ErrTooShort
	}
	return s, nil
}

// Level is an education level.
type Level struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var levels = []Level{
	{ID: "high_school", Title: "High School", Description: "Currently in school or recently graduated (10th/12th)"},
	{ID: "diploma", Title: "Diploma", Description: "Pursuing or completed a technical diploma"},
	{ID: "undergraduate", Title: "Undergraduate", Description: "Pursuing a Bachelor's degree (B.Tech, BCA, B.Sc, etc.)"},
	{ID: "postgraduate", Title: "Postgraduate", Description: "Pursuing a Master's degree (M.Tech, MCA, MBA, etc.)"},
	{ID: "other", Title: "Other / Self-taught", Description: "Learning on your own or through bootcamps"},
}

var degreesByLevel = map[string][]string{
	"high_school":   {"PCM", "PCB", "Commerce with CS", "Arts with CS", OtherOption},
	"diploma":       {"Computer Science Diploma", "IT Diploma", "Mechanical Diploma", "Electronics Diploma", "Civil Diploma", OtherOption},
	"undergraduate": {"BCA", "B.Tech / BE", "B.Sc CS", "B.Sc IT", "BBA (IT)", OtherOption},
	"postgraduate":  {"MCA", "M.Tech", "M.Sc CS/IT", "MBA IT", OtherOption},
	"other":         {"Self-taught", "Bootcamp", "Career Switcher", "Hobbyist"},
}

// Levels returns the education levels in display order.
func Levels() []Level {
	return append([]Level(nil), levels...)
}

// DegreesFor returns the degree choices for a level. Unknown levels get
// the "other" list.
func DegreesFor(level string) []string {
	d, ok := degreesByLevel[level]
	if !ok {
		d = degreesByLevel["other"]
	}
	return append([]string(nil), d...)
}

// FallbackSubjects is offered when no subjects could be generated.
var FallbackSubjects = []string{"Programming Basics", "Data Structures", "Web Development", "Database Management"}

// SubjectSource suggests subjects for a degree.
type SubjectSource interface {
	GenerateSubjects(ctx context.Context, degree string) ([]string, error)
}

// Subjects asks src for subjects and falls back to FallbackSubjects when
// it fails or returns nothing. The bool reports whether the fallback was
// used.
func Subjects(ctx context.Context, src SubjectSource, degree string) ([]string, bool) {
	if src != nil {
		if s, err := src.GenerateSubjects(ctx, degree); err == nil && len(s) > 0 {
			return s, false
		}
	}
	return append([]string(nil), FallbackSubjects...), true
}

// Topic is a recommended starting topic.
type Topic struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

var topicsBySubject = map[string][]Topic{
	"Programming Basics": {
		{"Variables & Data Types", "Beginner"},
		{"Control Structures", "Beginner"},
		{"Functions", "Intermediate"},
	},
	"Data Structures & Algorithms": {
		{"Arrays & Strings", "Beginner"},
		{"Linked Lists", "Intermediate"},
		{"Recursion", "Intermediate"},
		{"Trees & Graphs", "Advanced"},
	},
	"Web Development": {
		{"HTML5 & CSS3", "Beginner"},
		{"JavaScript Basics", "Intermediate"},
		{"React Components", "Intermediate"},
	},
}

// Topics returns recommended topics for subject.
func Topics(subject string) []Topic {
	if t, ok := topicsBySubject[subject]; ok {
		return append([]Topic(nil), t...)
	}
	return []Topic{
		{Name: subject + " Fundamentals", Difficulty: "Beginner"},
		{Name: subject + " Advanced Concepts", Difficulty: "Advanced"},
	}
}
