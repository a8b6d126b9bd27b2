package models

// CompanyCount is one row of the per-employer vacancy count report.
type CompanyCount struct {
	Name           string `json:"name" db:"name"`
	VacanciesCount int64  `json:"vacancies_count" db:"vacancies_count"`
}

// VacancyListing is a vacancy joined with its employer name.
type VacancyListing struct {
	Company    string  `json:"company" db:"company"`
	Title      string  `json:"title" db:"title"`
	SalaryFrom *int    `json:"salary_from" db:"salary_from"`
	SalaryTo   *int    `json:"salary_to" db:"salary_to"`
	Currency   *string `json:"currency" db:"currency"`
	URL        *string `json:"url" db:"url"`
}

// SalaryAverage holds the average salary bounds. Both are nil when no
// vacancy carries a salary.
type SalaryAverage struct {
	AvgSalaryFrom *float64 `json:"avg_salary_from" db:"avg_salary_from"`
	AvgSalaryTo   *float64 `json:"avg_salary_to" db:"avg_salary_to"`
}

// CityCount is one row of the per-city vacancy count report.
type CityCount struct {
	City           string `json:"city" db:"city"`
	VacanciesCount int64  `json:"vacancies_count" db:"vacancies_count"`
}
