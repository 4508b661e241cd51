package store

// SalesRecord is one raw transaction as supplied by the host application or
// a record source. Total and Profit keep whatever the source produced
// (number, numeric string, nil) and are coerced during normalization.
type SalesRecord struct {
	Account string
	Date    string
	Total   any
	Profit  any
	User    string
	Status  string
}
