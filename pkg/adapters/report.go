package adapters

import (
	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/api"
	"github.com/de-tools/account-ranking/pkg/models/domain"
)

func MapDomainSortToAPI(s domain.SortState) api.Sort {
	return api.Sort{
		Key:       string(s.Key),
		Direction: string(s.Direction),
		Year:      s.Year,
	}
}

func MapDomainAccountToAPI(account *domain.Account, years []int) api.Account {
	result := api.Account{
		Name:        account.Name,
		Ranking:     string(account.Ranking),
		Years:       make([]api.YearTotals, 0, len(years)),
		TotalSales:  account.TotalSales,
		TotalMargin: account.TotalMargin,
		TotalCount:  account.TotalCount,
	}
	for _, year := range years {
		result.Years = append(result.Years, mapYear(year, account.Year(year)))
	}
	return result
}

// MapDomainReportToAPI flattens a report into its wire form. Every account
// and bucket carries one entry per report year, zero-filled.
func MapDomainReportToAPI(report domain.Report, sort domain.SortState, filterUser string, labels export.Labels) api.Report {
	years := report.Years()
	result := api.Report{
		Years:      years,
		Rankings:   make([]api.RankingBucket, 0, len(report.Buckets)),
		Empty:      report.Empty,
		Sort:       MapDomainSortToAPI(sort),
		FilterUser: filterUser,
	}

	for i := range report.Buckets {
		bucket := &report.Buckets[i]
		b := api.RankingBucket{
			Ranking:     string(bucket.Ranking),
			Label:       labels.For(bucket.Ranking),
			Accounts:    make([]api.Account, 0, len(bucket.Accounts)),
			Years:       make([]api.YearTotals, 0, len(years)),
			TotalSales:  bucket.TotalSales,
			TotalMargin: bucket.TotalMargin,
			TotalCount:  bucket.TotalCount,
		}
		for _, account := range bucket.Accounts {
			b.Accounts = append(b.Accounts, MapDomainAccountToAPI(account, years))
		}
		for _, year := range years {
			b.Years = append(b.Years, mapYear(year, bucket.YearTotals(year)))
		}
		result.Rankings = append(result.Rankings, b)
	}
	return result
}

func mapYear(year int, y domain.YearBucket) api.YearTotals {
	return api.YearTotals{
		Year:        year,
		TotalSales:  y.TotalSales,
		TotalMargin: y.TotalMargin,
		Count:       y.Count,
	}
}
