package models

// Vacancy is a single job posting. Salary bounds, currency and city are
// nil when the API response omits them.
type Vacancy struct {
	ID          string  `json:"id" db:"id"`
	EmployerID  string  `json:"employer_id" db:"employer_id"`
	Title       string  `json:"title" db:"title"`
	SalaryFrom  *int    `json:"salary_from" db:"salary_from"`
	SalaryTo    *int    `json:"salary_to" db:"salary_to"`
	Currency    *string `json:"currency" db:"currency"`
	URL         string  `json:"url" db:"url"`
	Description string  `json:"description" db:"description"`
	City        *string `json:"city" db:"city"`
}
