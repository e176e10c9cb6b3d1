// Package quiz holds the pure domain logic of the board: submission
// validation, answer matching, list filtering and the dashboard
// aggregations. Nothing here touches storage.
package quiz

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/studyinside/quizboard-backend/internal/hangul"
	"github.com/studyinside/quizboard-backend/internal/model"
)

// ErrMissingFields is the single aggregated validation error: the board
// does not tell the user which field failed, only that a required one is
// missing.
var ErrMissingFields = errors.New("required field missing")

// CategoryAll is the sentinel category value that disables category
// filtering.
const CategoryAll = "all"

// ValidateSubmission checks a creation/edit form submission and resolves
// it into a Problem value ready to persist. Title, category, question and
// a non-empty answer are always required; multiple choice additionally
// requires all four options and an answer drawn verbatim from them (the
// form selects the answer by option index, resolved to text here).
func ValidateSubmission(sub *model.ProblemSubmission) (*model.Problem, error) {
	answer := strings.TrimSpace(sub.Answer)

	if sub.QuestionType == model.QuestionTypeMultipleChoice {
		if sub.AnswerIndex == nil || *sub.AnswerIndex < 0 || *sub.AnswerIndex > 3 {
			return nil, ErrMissingFields
		}
		answer = sub.Options[*sub.AnswerIndex]
		for _, opt := range sub.Options {
			if opt == "" {
				return nil, ErrMissingFields
			}
		}
	}

	if sub.Title == "" || sub.Category == "" || sub.Question == "" || answer == "" {
		return nil, ErrMissingFields
	}

	p := &model.Problem{
		Title:        sub.Title,
		Category:     sub.Category,
		Chapter:      sub.Chapter,
		Difficulty:   sub.Difficulty,
		Question:     sub.Question,
		QuestionType: sub.QuestionType,
		Answer:       answer,
		Explanation:  sub.Explanation,
	}
	if sub.QuestionType == model.QuestionTypeMultipleChoice {
		p.Options = sub.Options
	}
	return p, nil
}

// CheckAnswer is the single source of truth for correctness: both sides
// are trimmed and compared for exact, case-sensitive equality, whether the
// question is multiple choice or short answer.
func CheckAnswer(p *model.Problem, userInput string) bool {
	return strings.TrimSpace(userInput) == strings.TrimSpace(p.Answer)
}

// FilterProblems narrows a problem list by category and search text,
// preserving the input order. Category matching is exact (CategoryAll or
// empty disables it); search is a case-insensitive substring match against
// title or question. Both filters AND together.
func FilterProblems(all []model.Problem, category, search string) []model.Problem {
	search = strings.ToLower(search)
	out := make([]model.Problem, 0, len(all))
	for _, p := range all {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Question), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct categories present, sorted ascending.
func Categories(all []model.Problem) []string {
	seen := make(map[string]struct{})
	var cats []string
	for _, p := range all {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return cats
}

// SortByKoreanInitial returns the problems ordered by the locale-aware
// title key: digits, then Latin letters, then Hangul grouped by leading
// consonant, then everything else. The sort is stable so equal keys keep
// the store's order.
func SortByKoreanInitial(problems []model.Problem) []model.Problem {
	out := make([]model.Problem, len(problems))
	copy(out, problems)
	sort.SliceStable(out, func(i, j int) bool {
		return hangul.Less(out[i].Title, out[j].Title)
	})
	return out
}

// AggregateByCreator counts problems per creator name.
func AggregateByCreator(problems []model.Problem) map[string]int {
	counts := make(map[string]int)
	for _, p := range problems {
		counts[p.CreatorName]++
	}
	return counts
}

// AggregateBySolver counts recorded solves per user name.
func AggregateBySolver(solutions []model.Solution) map[string]int {
	counts := make(map[string]int)
	for _, s := range solutions {
		counts[s.UserName]++
	}
	return counts
}

// SolvedProblem pairs a problem title with its solve count for the
// dashboard's most-solved table.
type SolvedProblem struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// TopSolvedProblems returns the n most-solved problems as (title, count)
// pairs, sorted by count descending. Ties keep the order problems arrived
// from the store. Solutions referencing deleted problems are skipped.
func TopSolvedProblems(solutions []model.Solution, problems []model.Problem, n int) []SolvedProblem {
	counts := make(map[uuid.UUID]int, len(problems))
	for _, s := range solutions {
		counts[s.ProblemID]++
	}

	top := make([]SolvedProblem, 0, len(problems))
	for _, p := range problems {
		if c := counts[p.ID]; c > 0 {
			top = append(top, SolvedProblem{Title: p.Title, Count: c})
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })

	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}
