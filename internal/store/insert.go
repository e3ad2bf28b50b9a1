package store

import (
	"context"
	"fmt"

	"github.com/baxromumarov/hh-vacancies/internal/model"
	"github.com/baxromumarov/hh-vacancies/internal/observability"
)

// Insert writes records into table, which must be "companies" or
// "vacancies". For companies it returns one target per inserted row, in
// insertion order; for vacancies it returns nil. Nothing is written when the
// table is unknown or a record belongs to another table.
func (s *Store) Insert(ctx context.Context, table string, records []model.Record) ([]model.VacancyTarget, error) {
	switch table {
	case model.TableCompanies:
		employers := make([]model.Employer, 0, len(records))
		for _, r := range records {
			e, ok := r.(model.Employer)
			if !ok {
				return nil, fmt.Errorf("%w: %T into %s", ErrRecordType, r, table)
			}
			employers = append(employers, e)
		}
		return s.InsertEmployers(ctx, employers)
	case model.TableVacancies:
		vacancies := make([]model.Vacancy, 0, len(records))
		for _, r := range records {
			v, ok := r.(model.Vacancy)
			if !ok {
				return nil, fmt.Errorf("%w: %T into %s", ErrRecordType, r, table)
			}
			vacancies = append(vacancies, v)
		}
		return nil, s.InsertVacancies(ctx, vacancies)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
}

// InsertEmployers inserts every employer in one transaction and returns the
// generated row id with the vacancies url of each.
func (s *Store) InsertEmployers(ctx context.Context, employers []model.Employer) ([]model.VacancyTarget, error) {
	targets := make([]model.VacancyTarget, 0, len(employers))
	if len(employers) == 0 {
		return targets, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin companies tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range employers {
		var t model.VacancyTarget
		err := tx.QueryRowContext(ctx, `
INSERT INTO companies (employer_id, name, alternate_url, city, description, site_url, vacancies_url, open_vacancies)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, vacancies_url
`, e.EmployerID, e.Name, e.AlternateURL, e.City, e.Description, e.SiteURL, e.VacanciesURL, e.OpenVacancies).Scan(&t.CompanyID, &t.VacanciesURL)
		if err != nil {
			return nil, fmt.Errorf("failed to insert company %s: %w", e.EmployerID, err)
		}
		targets = append(targets, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit companies: %w", err)
	}
	observability.AddRowsInserted(len(targets))
	return targets, nil
}

// InsertVacancies inserts every vacancy in one transaction.
func (s *Store) InsertVacancies(ctx context.Context, vacancies []model.Vacancy) error {
	if len(vacancies) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin vacancies tx: %w", err)
	}
	defer tx.Rollback()

	for _, v := range vacancies {
		_, err := tx.ExecContext(ctx, `
INSERT INTO vacancies (vacancy_id, name, company_id, url, salary_min, salary_max, requirement)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, v.VacancyID, v.Name, v.CompanyID, v.URL, v.Salary.From, v.Salary.To, v.Requirement)
		if err != nil {
			return fmt.Errorf("failed to insert vacancy %s: %w", v.VacancyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vacancies: %w", err)
	}
	observability.AddRowsInserted(len(vacancies))
	return nil
}
