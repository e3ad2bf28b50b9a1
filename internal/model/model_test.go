package model

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) RawDocument {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(raw))
	dec.UseNumber()
	var doc RawDocument
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestNewEmployer(t *testing.T) {
	doc := decode(t, `{
		"id": "3529",
		"name": "SBER",
		"alternate_url": "https://hh.ru/employer/3529",
		"area": {"id": "1", "name": "Moscow"},
		"description": "<p>Bank</p>",
		"site_url": "http://sber.ru",
		"vacancies_url": "https://api.hh.ru/vacancies?employer_id=3529",
		"open_vacancies": 4120
	}`)

	e := NewEmployer(doc)
	assert.Equal(t, Employer{
		EmployerID:    "3529",
		Name:          "SBER",
		AlternateURL:  "https://hh.ru/employer/3529",
		City:          "Moscow",
		Description:   "<p>Bank</p>",
		SiteURL:       "http://sber.ru",
		VacanciesURL:  "https://api.hh.ru/vacancies?employer_id=3529",
		OpenVacancies: 4120,
	}, e)
	assert.Equal(t, TableCompanies, e.Table())
}

func TestNewEmployer_MissingAndNullFields(t *testing.T) {
	cases := map[string]string{
		"empty":        `{}`,
		"nulls":        `{"id": null, "name": null, "area": null, "open_vacancies": null}`,
		"wrong types":  `{"name": ["x"], "area": "Moscow", "open_vacancies": {"n": 1}}`,
		"area no name": `{"area": {"id": "1"}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Employer{}, NewEmployer(decode(t, raw)))
		})
	}

	assert.Equal(t, Employer{}, NewEmployer(nil))
}

func TestNewEmployer_NumericID(t *testing.T) {
	e := NewEmployer(RawDocument{"id": float64(78638), "open_vacancies": "12"})
	assert.Equal(t, "78638", e.EmployerID)
	assert.Equal(t, 12, e.OpenVacancies)
}

func TestNewVacancy(t *testing.T) {
	doc := decode(t, `{
		"id": "9001",
		"name": "Go Developer",
		"url": "https://api.hh.ru/vacancies/9001",
		"salary": {"from": 100000, "to": null, "currency": "RUR"},
		"snippet": {"requirement": "Go <highlighttext>experience</highlighttext>"}
	}`)

	v := NewVacancy(doc, 7)
	assert.Equal(t, Vacancy{
		VacancyID:   "9001",
		Name:        "Go Developer",
		URL:         "https://api.hh.ru/vacancies/9001",
		Salary:      Salary{From: 100000, To: 0},
		Requirement: "Go <highlighttext>experience</highlighttext>",
		CompanyID:   7,
	}, v)
	assert.Equal(t, TableVacancies, v.Table())
}

func TestNewVacancy_SalaryDefaults(t *testing.T) {
	cases := map[string]string{
		"no salary":   `{"name": "a"}`,
		"null salary": `{"name": "a", "salary": null}`,
		"null bounds": `{"name": "a", "salary": {"from": null, "to": null}}`,
		"junk bounds": `{"name": "a", "salary": {"from": "n/a", "to": true}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			v := NewVacancy(decode(t, raw), 1)
			assert.Equal(t, Salary{}, v.Salary)
			assert.Equal(t, "a", v.Name)
			assert.Equal(t, "", v.Requirement)
		})
	}
}

func TestNewVacancies_ThreadsCompanyID(t *testing.T) {
	docs := []RawDocument{{"id": "1"}, {"id": "2"}, {"id": "3"}}

	vacancies := NewVacancies(docs, 42)
	require.Len(t, vacancies, 3)
	for i, v := range vacancies {
		assert.Equal(t, 42, v.CompanyID)
		assert.Equal(t, docs[i].Text("id"), v.VacancyID)
	}

	assert.Empty(t, NewVacancies(nil, 42))
	assert.NotNil(t, NewVacancies(nil, 42))
}

func TestCompareSalaries(t *testing.T) {
	a := Salary{From: 0, To: 50}
	b := Salary{From: 60, To: 100}
	assert.Equal(t, -1, CompareSalaries(a, b))
	assert.Equal(t, 1, CompareSalaries(b, a))

	assert.Equal(t, 0, CompareSalaries(Salary{From: 0, To: 100}, Salary{From: 50, To: 150}))
	assert.Equal(t, 0, CompareSalaries(Salary{}, Salary{}))

	low := Vacancy{Salary: Salary{From: 0, To: 10}}
	mid := Vacancy{Salary: Salary{From: 5, To: 25}}
	high := Vacancy{Salary: Salary{From: 20, To: 30}}
	assert.Equal(t, 0, low.CompareSalary(mid))
	assert.Equal(t, 0, mid.CompareSalary(high))
	assert.Equal(t, -1, low.CompareSalary(high), "overlap is not transitive")
}

func TestSalaryString(t *testing.T) {
	assert.Equal(t, "100 - 200", Salary{From: 100, To: 200}.String())
	assert.Equal(t, "100", Salary{From: 100}.String())
	assert.Equal(t, "200", Salary{To: 200}.String())
	assert.Equal(t, "", Salary{}.String())
}

func TestEmployerString_FlattensDescription(t *testing.T) {
	e := Employer{EmployerID: "1", Name: "Acme", Description: "<p>We build</p><ul><li>rockets</li></ul>"}
	out := e.String()
	assert.Contains(t, out, "Employer 1: Acme")
	assert.Contains(t, out, "Description: We build rockets")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a b", PlainText("  a \n b "))
	assert.Equal(t, "Go experience", PlainText("Go <highlighttext>experience</highlighttext>"))
	assert.Equal(t, "", PlainText(""))
}

func TestRecords(t *testing.T) {
	er := EmployerRecords([]Employer{{Name: "a"}, {Name: "b"}})
	require.Len(t, er, 2)
	assert.Equal(t, TableCompanies, er[1].Table())

	vr := VacancyRecords([]Vacancy{{Name: "a"}})
	require.Len(t, vr, 1)
	assert.Equal(t, TableVacancies, vr[0].Table())
}
