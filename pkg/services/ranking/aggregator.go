package ranking

import (
	"slices"
	"strings"

	"github.com/de-tools/account-ranking/pkg/models/domain"
)

// Aggregator folds facts into accounts keyed by name.
type Aggregator struct {
	accounts map[string]*domain.Account
}

func NewAggregator() *Aggregator {
	return &Aggregator{accounts: make(map[string]*domain.Account)}
}

func (a *Aggregator) Add(fact domain.Fact) {
	account, ok := a.accounts[fact.Account]
	if !ok {
		account = domain.NewAccount(fact.Account)
		a.accounts[fact.Account] = account
	}
	account.Record(fact.Year, fact.Amount, fact.Margin)
}

func (a *Aggregator) Len() int {
	return len(a.accounts)
}

// Accounts returns the aggregated accounts ordered by name, independent of
// the order the facts arrived in.
func (a *Aggregator) Accounts() []*domain.Account {
	accounts := make([]*domain.Account, 0, len(a.accounts))
	for _, account := range a.accounts {
		accounts = append(accounts, account)
	}
	slices.SortFunc(accounts, func(x, y *domain.Account) int {
		return strings.Compare(x.Name, y.Name)
	})
	return accounts
}
