package api

import "time"

type YearTotals struct {
	Year        int     `json:"year"`
	TotalSales  float64 `json:"total_sales"`
	TotalMargin float64 `json:"total_margin"`
	Count       int     `json:"count"`
}

type Account struct {
	Name        string       `json:"name"`
	Ranking     string       `json:"ranking"`
	Years       []YearTotals `json:"years"`
	TotalSales  float64      `json:"total_sales"`
	TotalMargin float64      `json:"total_margin"`
	TotalCount  int          `json:"total_count"`
}

type RankingBucket struct {
	Ranking     string       `json:"ranking"`
	Label       string       `json:"label"`
	Accounts    []Account    `json:"accounts"`
	Years       []YearTotals `json:"years"`
	TotalSales  float64      `json:"total_sales"`
	TotalMargin float64      `json:"total_margin"`
	TotalCount  int          `json:"total_count"`
}

type Sort struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
	Year      int    `json:"year,omitempty"`
}

type Report struct {
	Years      []int           `json:"years"`
	Rankings   []RankingBucket `json:"rankings"`
	Empty      bool            `json:"empty"`
	Sort       Sort            `json:"sort"`
	FilterUser string          `json:"filter_user"`
}

type SortRequest struct {
	Key  string `json:"key"`
	Year int    `json:"year,omitempty"`
}

type FilterRequest struct {
	User string `json:"user"`
}

type LoadResponse struct {
	Records int      `json:"records"`
	Users   []string `json:"users"`
}

type ExportResponse struct {
	Filename      string    `json:"filename"`
	Mode          string    `json:"mode"`
	UserFilter    string    `json:"userFilter"`
	GeneratedDate time.Time `json:"generatedDate"`
	Location      string    `json:"location"`
}
