package ranking

import "github.com/de-tools/account-ranking/pkg/models/domain"

// Classifier assigns accounts to tiers. Both thresholds are exclusive: a
// total exactly on either boundary ranks B.
type Classifier struct {
	upper float64
	lower float64
	basis domain.Basis
}

func NewClassifier(settings Settings) *Classifier {
	settings = settings.Canonical()
	return &Classifier{
		upper: settings.UpperThreshold,
		lower: settings.LowerThreshold,
		basis: settings.RankBasis,
	}
}

func (c *Classifier) Classify(account *domain.Account) domain.Ranking {
	value := c.basis.Value(account)
	switch {
	case value > c.upper:
		return domain.RankingA
	case value < c.lower:
		return domain.RankingC
	default:
		return domain.RankingB
	}
}

// Assign sets the ranking of every account.
func (c *Classifier) Assign(accounts []*domain.Account) {
	for _, account := range accounts {
		account.Ranking = c.Classify(account)
	}
}

// Partition splits classified accounts into the A, B and C buckets,
// keeping their relative order. Tiers without accounts stay empty.
func Partition(accounts []*domain.Account) []domain.RankingBucket {
	buckets := make([]domain.RankingBucket, len(domain.Rankings))
	index := make(map[domain.Ranking]int, len(domain.Rankings))
	for i, r := range domain.Rankings {
		buckets[i].Ranking = r
		index[r] = i
	}

	for _, account := range accounts {
		i, ok := index[account.Ranking]
		if !ok {
			continue
		}
		buckets[i].Add(account)
	}
	return buckets
}
