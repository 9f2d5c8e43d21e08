package models

// Record is one spreadsheet row keyed by the header column names. Every
// column of the header is present; missing cells are empty strings.
type Record struct {
	Values map[string]string
}

// Get returns the value of column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return r.Values[column]
}
