package model

import (
	"fmt"
	"strings"
)

const (
	TableCompanies = "companies"
	TableVacancies = "vacancies"
)

// Record is a normalized row destined for one of the two tables.
type Record interface {
	Table() string
}

// Employer is one organization from the job board, normalized so that no
// field is ever missing.
type Employer struct {
	EmployerID    string `json:"employer_id"`
	Name          string `json:"name"`
	AlternateURL  string `json:"alternate_url"`
	City          string `json:"city"`
	Description   string `json:"description"`
	SiteURL       string `json:"site_url"`
	VacanciesURL  string `json:"vacancies_url"`
	OpenVacancies int    `json:"open_vacancies"`
}

// NewEmployer builds an Employer from a raw /employers/{id} document.
func NewEmployer(doc RawDocument) Employer {
	return Employer{
		EmployerID:    doc.Text("id"),
		Name:          doc.Text("name"),
		AlternateURL:  doc.Text("alternate_url"),
		City:          doc.Object("area").Text("name"),
		Description:   doc.Text("description"),
		SiteURL:       doc.Text("site_url"),
		VacanciesURL:  doc.Text("vacancies_url"),
		OpenVacancies: doc.Int("open_vacancies"),
	}
}

func NewEmployers(docs []RawDocument) []Employer {
	employers := make([]Employer, 0, len(docs))
	for _, doc := range docs {
		employers = append(employers, NewEmployer(doc))
	}
	return employers
}

func (e Employer) Table() string { return TableCompanies }

func (e Employer) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Employer %s: %s\n", e.EmployerID, e.Name)
	if desc := PlainText(e.Description); desc != "" {
		fmt.Fprintf(&sb, "Description: %s\n", desc)
	}
	fmt.Fprintf(&sb, "City: %s\n", e.City)
	fmt.Fprintf(&sb, "Site: %s\n", e.SiteURL)
	fmt.Fprintf(&sb, "Open vacancies: %d\n", e.OpenVacancies)
	fmt.Fprintf(&sb, "Vacancies page: %s\n", e.AlternateURL)
	return sb.String()
}

// EmployerRecords adapts employers for Store.Insert.
func EmployerRecords(employers []Employer) []Record {
	records := make([]Record, len(employers))
	for i, e := range employers {
		records[i] = e
	}
	return records
}

// VacancyTarget ties a persisted company row to the URL its vacancies are
// fetched from. Targets are produced by inserting employers, so vacancy
// fetching can only start after that insert.
type VacancyTarget struct {
	CompanyID    int    `json:"company_id"`
	VacanciesURL string `json:"vacancies_url"`
}
