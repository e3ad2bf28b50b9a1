package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

type CompanyVacancyCount struct {
	Company   string `json:"company"`
	Vacancies int    `json:"vacancies"`
}

// VacancyListing is the projection shared by every vacancy listing query.
type VacancyListing struct {
	Company   string `json:"company"`
	Vacancy   string `json:"vacancy"`
	SalaryMin int    `json:"salary_min"`
	SalaryMax int    `json:"salary_max"`
	URL       string `json:"url"`
}

const listingSelect = `
SELECT c.name, v.name, v.salary_min, v.salary_max, v.url
FROM vacancies v
JOIN companies c ON v.company_id = c.id
`

const averageSalaryQuery = `
SELECT AVG((salary_min + salary_max) / 2.0)
FROM vacancies
WHERE salary_min IS NOT NULL AND salary_max IS NOT NULL
`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CompaniesWithVacancyCounts returns every company name with the number of
// vacancies it has, including companies with none.
func (s *Store) CompaniesWithVacancyCounts(ctx context.Context) ([]CompanyVacancyCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.name, COUNT(v.id)
FROM companies c
LEFT JOIN vacancies v ON c.id = v.company_id
GROUP BY c.name
ORDER BY c.name
`)
	if err != nil {
		return nil, fmt.Errorf("failed to count vacancies: %w", err)
	}
	defer rows.Close()

	var counts []CompanyVacancyCount
	for rows.Next() {
		var c CompanyVacancyCount
		if err := rows.Scan(&c.Company, &c.Vacancies); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) AllVacancies(ctx context.Context) ([]VacancyListing, error) {
	return listVacancies(ctx, s.db, listingSelect+"ORDER BY c.name, v.id")
}

// AverageSalary averages the midpoint of every vacancy's salary range,
// rounded to two decimals. It is 0 when there are no vacancies.
func (s *Store) AverageSalary(ctx context.Context) (float64, error) {
	return averageSalary(ctx, s.db)
}

// VacanciesAboveAverageSalary first computes AverageSalary and then lists
// the vacancies whose salary midpoint is above it. Both steps run in one
// read-only transaction so they see the same rows.
func (s *Store) VacanciesAboveAverageSalary(ctx context.Context) ([]VacancyListing, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read tx: %w", err)
	}
	defer tx.Rollback()

	avg, err := averageSalary(ctx, tx)
	if err != nil {
		return nil, err
	}

	listings, err := listVacancies(ctx, tx,
		listingSelect+"WHERE (v.salary_min + v.salary_max) / 2.0 > $1\nORDER BY c.name, v.id", avg)
	if err != nil {
		return nil, err
	}
	return listings, tx.Commit()
}

// VacanciesByKeyword lists vacancies whose name contains keyword, using the
// database's LIKE semantics.
func (s *Store) VacanciesByKeyword(ctx context.Context, keyword string) ([]VacancyListing, error) {
	return listVacancies(ctx, s.db,
		listingSelect+"WHERE v.name LIKE '%' || $1::text || '%'\nORDER BY c.name, v.id", keyword)
}

func averageSalary(ctx context.Context, q queryer) (float64, error) {
	var avg sql.NullFloat64
	if err := q.QueryRowContext(ctx, averageSalaryQuery).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average salaries: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return math.Round(avg.Float64*100) / 100, nil
}

func listVacancies(ctx context.Context, q queryer, query string, args ...any) ([]VacancyListing, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}
	defer rows.Close()

	var listings []VacancyListing
	for rows.Next() {
		var (
			l         VacancyListing
			salaryMin sql.NullInt64
			salaryMax sql.NullInt64
		)
		if err := rows.Scan(&l.Company, &l.Vacancy, &salaryMin, &salaryMax, &l.URL); err != nil {
			return nil, err
		}
		if salaryMin.Valid {
			l.SalaryMin = int(salaryMin.Int64)
		}
		if salaryMax.Valid {
			l.SalaryMax = int(salaryMax.Int64)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
