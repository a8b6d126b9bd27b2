package models

// Employer is a company as tracked by the HeadHunter API and mirrored
// into the employers table.
type Employer struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	URL           string `json:"url" db:"url"`
	OpenVacancies int    `json:"open_vacancies" db:"open_vacancies"`
}
