// Package cli implements the interactive query menu.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/store"
)

// Queries is the read side of *store.Store.
type Queries interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]store.CompanyVacancyCount, error)
	AllVacancies(ctx context.Context) ([]store.VacancyListing, error)
	AverageSalary(ctx context.Context) (float64, error)
	VacanciesAboveAverageSalary(ctx context.Context) ([]store.VacancyListing, error)
	VacanciesByKeyword(ctx context.Context, keyword string) ([]store.VacancyListing, error)
}

const menuText = `
Choose an action:
1. List all companies and the number of vacancies each has.
2. List all vacancies with company name, vacancy name, salary and link.
3. Show the average salary across vacancies.
4. List vacancies with a salary above the average.
5. List vacancies whose name contains a keyword.
6. Exit.
`

const teardownTimeout = 10 * time.Second

type Menu struct {
	queries  Queries
	teardown func(ctx context.Context) error
	in       io.Reader
	out      io.Writer
	lines    <-chan string
}

// NewMenu builds a menu reading choices from in. teardown runs when the user
// exits, input ends or ctx is cancelled.
func NewMenu(queries Queries, teardown func(ctx context.Context) error, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		queries:  queries,
		teardown: teardown,
		in:       in,
		out:      out,
	}
}

func (m *Menu) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	m.lines = readLines(m.in, stop)

	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt(ctx, "Enter action number: ")
		if !ok {
			return m.exit(ctx)
		}

		var err error
		switch choice {
		case "1":
			err = m.showCompanies(ctx)
		case "2":
			err = m.showListings(m.queries.AllVacancies(ctx))
		case "3":
			err = m.showAverage(ctx)
		case "4":
			err = m.showListings(m.queries.VacanciesAboveAverageSalary(ctx))
		case "5":
			keyword, ok := m.prompt(ctx, "Enter keyword: ")
			if !ok {
				return m.exit(ctx)
			}
			err = m.showListings(m.queries.VacanciesByKeyword(ctx, keyword))
		case "6":
			return m.exit(ctx)
		default:
			fmt.Fprintln(m.out, "Invalid choice, try again.")
		}

		if err != nil {
			log.Error().Err(err).Str("choice", choice).Msg("query failed")
			fmt.Fprintf(m.out, "Query failed: %v\n", err)
		}
	}
}

// readLines feeds lines of in to the returned channel until in is exhausted
// or stop is closed. A read already blocked on in outlives stop.
func readLines(in io.Reader, stop <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
	}()
	return lines
}

// prompt reports false once input ends or ctx is cancelled.
func (m *Menu) prompt(ctx context.Context, label string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		fmt.Fprintln(m.out)
		return "", false
	case line, ok := <-m.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// exit tears down on a context detached from ctx, so an interrupt still
// drops the tables.
func (m *Menu) exit(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()

	if m.teardown != nil {
		if err := m.teardown(ctx); err != nil {
			return fmt.Errorf("teardown: %w", err)
		}
	}
	fmt.Fprintln(m.out, "Done.")
	return nil
}

func (m *Menu) showCompanies(ctx context.Context) error {
	counts, err := m.queries.CompaniesWithVacancyCounts(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tVACANCIES")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.Company, c.Vacancies)
	}
	return w.Flush()
}

func (m *Menu) showAverage(ctx context.Context) error {
	avg, err := m.queries.AverageSalary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Average salary: %.2f\n", avg)
	return nil
}

func (m *Menu) showListings(listings []store.VacancyListing, err error) error {
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Fprintln(m.out, "No vacancies found.")
		return nil
	}
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tVACANCY\tSALARY MIN\tSALARY MAX\tURL")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", l.Company, l.Vacancy, l.SalaryMin, l.SalaryMax, l.URL)
	}
	return w.Flush()
}
