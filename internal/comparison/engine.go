package comparison

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"samecast/internal/logging"
	"samecast/internal/metadata"
)

// departmentPriority orders shared crew; unlisted departments sort last.
var departmentPriority = map[string]int{
	"Directing":  0,
	"Writing":    1,
	"Production": 2,
	"Sound":      3,
	"Camera":     4,
}

const otherDepartmentPriority = 99

// DetailsSource resolves canonical details for a title.
type DetailsSource interface {
	GetDetails(ctx context.Context, id int64, mediaType metadata.MediaType) (*metadata.TitleDetails, error)
}

// Engine compares titles fetched through a DetailsSource.
type Engine struct {
	source DetailsSource
	logger *slog.Logger
}

// NewEngine builds an Engine. A nil logger discards output.
func NewEngine(source DetailsSource, logger *slog.Logger) *Engine {
	return &Engine{source: source, logger: logging.NewComponentLogger(logger, "comparison")}
}

// FindShared fetches both titles concurrently and reports the people they share.
// Callers validate the pair with ValidatePair first.
func (e *Engine) FindShared(ctx context.Context, idA int64, typeA metadata.MediaType, idB int64, typeB metadata.MediaType) (*Report, error) {
	var first, second *metadata.TitleDetails

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := e.source.GetDetails(gctx, idA, typeA)
		if err != nil {
			return fmt.Errorf("title %s:%d: %w", typeA, idA, err)
		}
		first = d
		return nil
	})
	g.Go(func() error {
		d, err := e.source.GetDetails(gctx, idB, typeB)
		if err != nil {
			return fmt.Errorf("title %s:%d: %w", typeB, idB, err)
		}
		second = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := Compare(first, second)
	logging.WithContext(ctx, e.logger).Info("comparison complete",
		logging.String("title_1", first.DisplayTitle()),
		logging.String("title_2", second.DisplayTitle()),
		logging.Int("shared_cast", len(report.SharedCast)),
		logging.Int("shared_crew", len(report.SharedCrew)),
	)
	return report, nil
}

// Compare computes shared cast and crew between two titles. A person who is
// cast in both titles appears only in the cast list.
func Compare(a, b *metadata.TitleDetails) *Report {
	castA, castB := indexCast(a.Cast), indexCast(b.Cast)
	crewA, crewB := indexCrew(a.Crew), indexCrew(b.Crew)

	sharedCast := []SharedCast{}
	for id, ca := range castA {
		cb, ok := castB[id]
		if !ok {
			continue
		}
		sharedCast = append(sharedCast, SharedCast{
			PersonID:    id,
			Name:        ca.Name,
			ProfilePath: ca.ProfilePath,
			Role1:       ca.Character,
			Role2:       cb.Character,
			Order:       min(ca.DisplayOrder, cb.DisplayOrder),
		})
	}
	sort.Slice(sharedCast, func(i, j int) bool {
		if sharedCast[i].Order != sharedCast[j].Order {
			return sharedCast[i].Order < sharedCast[j].Order
		}
		return sharedCast[i].PersonID < sharedCast[j].PersonID
	})

	sharedCrew := []SharedCrew{}
	for id, ca := range crewA {
		cb, ok := crewB[id]
		if !ok {
			continue
		}
		if _, inCastA := castA[id]; inCastA {
			if _, inCastB := castB[id]; inCastB {
				continue
			}
		}
		sharedCrew = append(sharedCrew, SharedCrew{
			PersonID:    id,
			Name:        ca.Name,
			ProfilePath: ca.ProfilePath,
			Role1:       ca.Job,
			Role2:       cb.Job,
			Department:  ca.Department,
		})
	}
	sort.Slice(sharedCrew, func(i, j int) bool {
		pi, pj := departmentRank(sharedCrew[i].Department), departmentRank(sharedCrew[j].Department)
		if pi != pj {
			return pi < pj
		}
		if sharedCrew[i].Name != sharedCrew[j].Name {
			return sharedCrew[i].Name < sharedCrew[j].Name
		}
		return sharedCrew[i].PersonID < sharedCrew[j].PersonID
	})

	return &Report{
		Title1:      summarize(a),
		Title2:      summarize(b),
		SharedCast:  sharedCast,
		SharedCrew:  sharedCrew,
		TotalShared: len(sharedCast) + len(sharedCrew),
	}
}

func departmentRank(department string) int {
	if rank, ok := departmentPriority[department]; ok {
		return rank
	}
	return otherDepartmentPriority
}

// indexCast keys credits by person; a later credit for the same person wins.
func indexCast(credits []metadata.CastCredit) map[int64]metadata.CastCredit {
	out := make(map[int64]metadata.CastCredit, len(credits))
	for _, c := range credits {
		out[c.ID] = c
	}
	return out
}

func indexCrew(credits []metadata.CrewCredit) map[int64]metadata.CrewCredit {
	out := make(map[int64]metadata.CrewCredit, len(credits))
	for _, c := range credits {
		out[c.ID] = c
	}
	return out
}
