package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/model"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
)

// Fetcher is the job board side of a load. *hh.Client implements it.
type Fetcher interface {
	FetchEmployers(ctx context.Context, ids []string) ([]model.RawDocument, error)
	FetchVacancies(ctx context.Context, targets []model.VacancyTarget) []model.Vacancy
}

// Gateway is the database side of a load. *store.Store implements it.
type Gateway interface {
	CreateTables(ctx context.Context) error
	Insert(ctx context.Context, table string, records []model.Record) ([]model.VacancyTarget, error)
	DropTable(ctx context.Context, name string) error
}

type Summary struct {
	RunID     string        `json:"run_id"`
	Employers int           `json:"employers"`
	Vacancies int           `json:"vacancies"`
	Duration  time.Duration `json:"duration"`
}

// Loader runs the fetch-employers, insert, fetch-vacancies, insert sequence.
type Loader struct {
	fetcher     Fetcher
	gateway     Gateway
	employerIDs []string
}

func NewLoader(fetcher Fetcher, gateway Gateway, employerIDs []string) *Loader {
	return &Loader{
		fetcher:     fetcher,
		gateway:     gateway,
		employerIDs: employerIDs,
	}
}

// Run loads every configured employer and its vacancies. Vacancies are only
// fetched after the companies are inserted, because they are keyed by the
// generated company row ids. A failed vacancy fetch is not an error: the
// load finishes with zero vacancies.
func (l *Loader) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", summary.RunID).Logger()

	if err := l.gateway.CreateTables(ctx); err != nil {
		observability.IncError(observability.ErrorStore, "core")
		return summary, fmt.Errorf("create tables: %w", err)
	}

	docs, err := l.fetcher.FetchEmployers(ctx, l.employerIDs)
	if err != nil {
		return summary, fmt.Errorf("fetch employers: %w", err)
	}
	employers := model.NewEmployers(docs)
	logger.Info().Int("employers", len(employers)).Msg("employers fetched")

	targets, err := l.gateway.Insert(ctx, model.TableCompanies, model.EmployerRecords(employers))
	if err != nil {
		observability.IncError(observability.ErrorStore, "core")
		return summary, fmt.Errorf("insert companies: %w", err)
	}
	summary.Employers = len(targets)

	vacancies := l.fetcher.FetchVacancies(ctx, targets)
	logger.Info().Int("vacancies", len(vacancies)).Msg("vacancies fetched")

	if _, err := l.gateway.Insert(ctx, model.TableVacancies, model.VacancyRecords(vacancies)); err != nil {
		observability.IncError(observability.ErrorStore, "core")
		return summary, fmt.Errorf("insert vacancies: %w", err)
	}
	summary.Vacancies = len(vacancies)
	summary.Duration = time.Since(start)

	logger.Info().
		Int("employers", summary.Employers).
		Int("vacancies", summary.Vacancies).
		Dur("duration", summary.Duration).
		Msg("load finished")
	return summary, nil
}

// Teardown drops both tables, vacancies first.
func (l *Loader) Teardown(ctx context.Context) error {
	for _, table := range []string{model.TableVacancies, model.TableCompanies} {
		if err := l.gateway.DropTable(ctx, table); err != nil {
			observability.IncError(observability.ErrorStore, "core")
			return err
		}
	}
	log.Info().Msg("tables dropped")
	return nil
}
