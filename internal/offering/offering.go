// Package offering turns the subject offering table into the bucket
// requests of one trimester.
package offering

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rhyrak/section-scheduler/internal/scheduler"
	"github.com/rhyrak/section-scheduler/pkg/model"
)

// DefaultGroups are the two cohort groups scheduled per program and year.
var DefaultGroups = []string{"A", "B"}

const DefaultSections = 3

var ErrNoOffering = errors.New("no subjects offered in trimester")

// Options selects what gets scheduled.
type Options struct {
	Trimester       string
	Groups          []string
	SectionCounts   []model.SectionCountRecord
	DefaultSections int
}

// BaseProgram strips a specialization suffix: "BSIT(WebTech)" -> "BSIT".
func BaseProgram(program string) string {
	if i := strings.Index(program, "("); i >= 0 {
		return strings.TrimSpace(program[:i])
	}
	return strings.TrimSpace(program)
}

type yearKey struct {
	program string
	year    string
}

// BuildRequests groups the trimester's records by program and year level and
// expands every pair into one request per group. A specialization also takes
// the subjects of its base program. Identical rows collapse.
func BuildRequests(records []model.SubjectRecord, opts Options) ([]scheduler.BucketRequest, error) {
	groups := opts.Groups
	if len(groups) == 0 {
		groups = DefaultGroups
	}
	defaultCount := opts.DefaultSections
	if defaultCount == 0 {
		defaultCount = DefaultSections
	}

	var programs []string
	years := make(map[string][]string)
	rows := make(map[yearKey][]model.SubjectRecord)
	for _, r := range records {
		if opts.Trimester != "" && !strings.EqualFold(strings.TrimSpace(r.Trimester), opts.Trimester) {
			continue
		}
		program := strings.TrimSpace(r.Program)
		year := strings.TrimSpace(r.YearLevel)
		if _, seen := years[program]; !seen {
			programs = append(programs, program)
		}
		if !slices.Contains(years[program], year) {
			years[program] = append(years[program], year)
		}
		k := yearKey{program, year}
		rows[k] = append(rows[k], r)
	}
	if len(programs) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoOffering, opts.Trimester)
	}

	var requests []scheduler.BucketRequest
	for _, program := range programs {
		ys := years[program]
		slices.SortStableFunc(ys, func(a, b string) int {
			return strings.Compare(model.YearPrefix(a), model.YearPrefix(b))
		})
		for _, year := range ys {
			selected := rows[yearKey{program, year}]
			if base := BaseProgram(program); base != program {
				selected = append(slices.Clone(rows[yearKey{base, year}]), selected...)
			}
			subjects, err := toSubjects(selected)
			if err != nil {
				return nil, err
			}
			count := sectionCount(opts.SectionCounts, program, year, defaultCount)
			for _, g := range groups {
				requests = append(requests, scheduler.BucketRequest{
					Bucket: model.Bucket{
						Program:   program,
						YearLevel: year,
						Trimester: selected[0].Trimester,
						Group:     g,
					},
					Sections: count,
					Subjects: subjects,
				})
			}
		}
	}
	return requests, nil
}

func toSubjects(records []model.SubjectRecord) ([]model.Subject, error) {
	type identity struct {
		code, description string
		kind              model.SubjectKind
	}
	seen := make(map[identity]bool)
	var subjects []model.Subject
	for i := range records {
		s, err := records[i].Subject()
		if err != nil {
			return nil, err
		}
		id := identity{s.Code, s.Description, s.Kind}
		if seen[id] {
			continue
		}
		seen[id] = true
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func sectionCount(counts []model.SectionCountRecord, program string, year string, fallback int) int {
	for _, c := range counts {
		if strings.EqualFold(c.Program, program) && strings.EqualFold(c.YearLevel, year) {
			return c.Sections
		}
	}
	return fallback
}
