package hhapi

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/hhvac/internal/models"
)

type employersResponse struct {
	Items []employerItem `json:"items"`
	Found int            `json:"found"`
}

type employerItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AlternateURL  string `json:"alternate_url"`
	OpenVacancies int    `json:"open_vacancies"`
}

func (e employerItem) toModel() models.Employer {
	return models.Employer{
		ID:            e.ID,
		Name:          e.Name,
		URL:           e.AlternateURL,
		OpenVacancies: e.OpenVacancies,
	}
}

type vacanciesResponse struct {
	Items   []vacancyItem `json:"items"`
	Found   int           `json:"found"`
	Pages   int           `json:"pages"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type vacancyItem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	AlternateURL string        `json:"alternate_url"`
	Employer     *idRef        `json:"employer"`
	Salary       *salaryRange  `json:"salary"`
	Address      *addressInfo  `json:"address"`
	Snippet      *snippetBlock `json:"snippet"`
}

type idRef struct {
	ID string `json:"id"`
}

type salaryRange struct {
	From     *int    `json:"from"`
	To       *int    `json:"to"`
	Currency *string `json:"currency"`
}

type addressInfo struct {
	City *string `json:"city"`
}

type snippetBlock struct {
	Requirement    *string `json:"requirement"`
	Responsibility *string `json:"responsibility"`
}

func parseVacancies(items []vacancyItem) []models.Vacancy {
	vacancies := make([]models.Vacancy, 0, len(items))
	for _, item := range items {
		vacancies = append(vacancies, parseVacancy(item))
	}
	return vacancies
}

func parseVacancy(item vacancyItem) models.Vacancy {
	vacancy := models.Vacancy{
		ID:    item.ID,
		Title: item.Name,
		URL:   item.AlternateURL,
	}
	if item.Employer != nil {
		vacancy.EmployerID = item.Employer.ID
	}
	if item.Salary != nil {
		vacancy.SalaryFrom = item.Salary.From
		vacancy.SalaryTo = item.Salary.To
		vacancy.Currency = item.Salary.Currency
	}
	if item.Address != nil {
		vacancy.City = item.Address.City
	}
	if item.Snippet != nil && item.Snippet.Requirement != nil {
		vacancy.Description = cleanSnippet(*item.Snippet.Requirement)
	}
	return vacancy
}

// cleanSnippet drops the <highlighttext> markup the API wraps around
// matched search terms.
func cleanSnippet(value string) string {
	if strings.ContainsAny(value, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
		if err == nil {
			value = doc.Text()
		}
	}
	return strings.Join(strings.Fields(value), " ")
}
