package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Salary is a vacancy's pay range. Absent bounds are 0.
type Salary struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Vacancy is one job posting tied to the row id of its persisted company,
// not to the job board's employer id.
type Vacancy struct {
	VacancyID   string `json:"vacancy_id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Salary      Salary `json:"salary"`
	Requirement string `json:"requirement"`
	CompanyID   int    `json:"company_id"`
}

// NewVacancy builds a Vacancy from one element of a vacancy search "items"
// array.
func NewVacancy(doc RawDocument, companyID int) Vacancy {
	salary := doc.Object("salary")
	return Vacancy{
		VacancyID: doc.Text("id"),
		Name:      doc.Text("name"),
		URL:       doc.Text("url"),
		Salary: Salary{
			From: salary.Int("from"),
			To:   salary.Int("to"),
		},
		Requirement: doc.Object("snippet").Text("requirement"),
		CompanyID:   companyID,
	}
}

func NewVacancies(docs []RawDocument, companyID int) []Vacancy {
	vacancies := make([]Vacancy, 0, len(docs))
	for _, doc := range docs {
		vacancies = append(vacancies, NewVacancy(doc, companyID))
	}
	return vacancies
}

func (v Vacancy) Table() string { return TableVacancies }

// CompareSalary compares v's salary range against other's.
// See CompareSalaries.
func (v Vacancy) CompareSalary(other Vacancy) int {
	return CompareSalaries(v.Salary, other.Salary)
}

// CompareSalaries returns -1 when a lies entirely below b, +1 when it lies
// entirely above, and 0 when the ranges overlap. The 0 result is not
// transitive: [0,10] and [20,30] both overlap [5,25] but not each other, so
// this is not a total order and must not back a sort or a set.
func CompareSalaries(a, b Salary) int {
	switch {
	case a.To < b.From:
		return -1
	case a.From > b.To:
		return 1
	default:
		return 0
	}
}

func (s Salary) String() string {
	switch {
	case s.From != 0 && s.To != 0:
		return fmt.Sprintf("%d - %d", s.From, s.To)
	case s.From != 0:
		return strconv.Itoa(s.From)
	case s.To != 0:
		return strconv.Itoa(s.To)
	default:
		return ""
	}
}

func (v Vacancy) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Vacancy %s: %s\n", v.VacancyID, v.Name)
	fmt.Fprintf(&sb, "URL: %s\n", v.URL)
	fmt.Fprintf(&sb, "Salary: %s\n", v.Salary)
	fmt.Fprintf(&sb, "Requirement: %s\n", PlainText(v.Requirement))
	return sb.String()
}

// VacancyRecords adapts vacancies for Store.Insert.
func VacancyRecords(vacancies []Vacancy) []Record {
	records := make([]Record, len(vacancies))
	for i, v := range vacancies {
		records[i] = v
	}
	return records
}
