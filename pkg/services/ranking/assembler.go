package ranking

import (
	"context"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/rs/zerolog"
)

// Assembler runs one full build: filter, normalize, aggregate, classify,
// bucket and sort. It holds no state between builds.
type Assembler struct {
	normalizer *Normalizer
	classifier *Classifier
	sorter     *Sorter
}

func NewAssembler(settings Settings) *Assembler {
	return &Assembler{
		normalizer: NewNormalizer(settings),
		classifier: NewClassifier(settings),
		sorter:     NewSorter(settings),
	}
}

// Build assembles the report for records. A non-empty filterUser keeps only
// the records of that user (exact match). When no record survives the
// filter the empty report is returned.
func (a *Assembler) Build(
	ctx context.Context,
	records []store.SalesRecord,
	filterUser string,
	sort domain.SortState,
) domain.Report {
	logger := zerolog.Ctx(ctx)

	retained := FilterByUser(records, filterUser)
	if len(retained) == 0 {
		logger.Debug().Str("user", filterUser).Msg("no records retained by filter")
		return domain.NewEmptyReport()
	}

	agg := NewAggregator()
	for _, rec := range retained {
		fact, ok := a.normalizer.Normalize(rec)
		if !ok {
			continue
		}
		agg.Add(fact)
	}

	accounts := agg.Accounts()
	a.classifier.Assign(accounts)

	buckets := Partition(accounts)
	for i := range buckets {
		if buckets[i].IsEmpty() {
			continue
		}
		buckets[i].Accounts = a.sorter.Apply(buckets[i].Accounts, sort)
	}

	report := domain.Report{Buckets: buckets}
	logger.Debug().
		Int("records", len(retained)).
		Int("accounts", len(accounts)).
		Ints("years", report.Years()).
		Str("sort_key", string(sort.Key)).
		Msg("report built")

	return report
}

// FilterByUser returns the records whose User equals user, or all records
// when user is empty.
func FilterByUser(records []store.SalesRecord, user string) []store.SalesRecord {
	if user == "" {
		return records
	}
	filtered := make([]store.SalesRecord, 0, len(records))
	for _, rec := range records {
		if rec.User == user {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
