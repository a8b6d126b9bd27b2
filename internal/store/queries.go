package store

const insertEmployerSQL = `
INSERT INTO employers (id, name, url, open_vacancies)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`

const insertVacancySQL = `
INSERT INTO vacancies (
    id, employer_id, title,
    salary_from, salary_to, currency,
    url, description, city
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`

const companiesCountSQL = `
SELECT e.name, COUNT(v.id) AS vacancies_count
FROM employers e
LEFT JOIN vacancies v ON e.id = v.employer_id
GROUP BY e.id, e.name
ORDER BY vacancies_count DESC, e.name`

const listingColumns = `
SELECT e.name AS company, v.title,
       v.salary_from, v.salary_to, v.currency, v.url
FROM vacancies v
JOIN employers e ON v.employer_id = e.id`

const allVacanciesSQL = listingColumns + `
ORDER BY e.name, v.salary_from DESC NULLS LAST`

const avgSalarySQL = `
SELECT AVG(salary_from)::float8 AS avg_salary_from,
       AVG(salary_to)::float8 AS avg_salary_to
FROM vacancies
WHERE salary_from IS NOT NULL OR salary_to IS NOT NULL`

// Comparisons against a NULL average are never true, so an all-null
// salary set yields no rows.
const higherSalarySQL = listingColumns + `
WHERE v.salary_from > (SELECT AVG(salary_from) FROM vacancies WHERE salary_from IS NOT NULL)
   OR v.salary_to > (SELECT AVG(salary_to) FROM vacancies WHERE salary_to IS NOT NULL)
ORDER BY GREATEST(v.salary_from, v.salary_to) DESC, e.name, v.title`

const keywordSQL = listingColumns + `
WHERE v.title ILIKE $1
ORDER BY e.name, v.title`

const byCitySQL = listingColumns + `
WHERE v.city ILIKE $1
ORDER BY e.name, v.title`

const citiesCountSQL = `
SELECT city, COUNT(*) AS vacancies_count
FROM vacancies
WHERE city IS NOT NULL
GROUP BY city
ORDER BY vacancies_count DESC, city`

const truncateSQL = `TRUNCATE TABLE vacancies, employers RESTART IDENTITY CASCADE`
