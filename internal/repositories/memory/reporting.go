package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

func within(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func (v *view) AccountTotals(_ context.Context, from, to *time.Time) ([]domain.AccountTotals, error) {
	var out []domain.AccountTotals
	err := v.read(func(st *state) error {
		accounts := sortedAccounts(st, func(domain.Account) bool { return true })
		index := make(map[string]int, len(accounts))
		out = make([]domain.AccountTotals, len(accounts))
		for i, a := range accounts {
			out[i] = domain.AccountTotals{Account: a}
			index[a.AccountID] = i
		}
		for _, e := range st.entries {
			for _, l := range e.Lines {
				i, ok := index[l.AccountID]
				if !ok || !within(l.Date, from, to) {
					continue
				}
				out[i].Debit = out[i].Debit.Add(l.Debit)
				out[i].Credit = out[i].Credit.Add(l.Credit)
			}
		}
		return nil
	})
	return out, err
}

func (v *view) PartnerLines(_ context.Context, partner domain.Ref) ([]domain.PartnerLine, error) {
	type keyed struct {
		line   domain.PartnerLine
		lineNo int
	}
	var rows []keyed
	err := v.read(func(st *state) error {
		for _, e := range st.entries {
			for _, l := range e.Lines {
				if l.Partner == nil || *l.Partner != partner {
					continue
				}
				narration := l.Narration
				if narration == "" {
					narration = e.Narration
				}
				rows = append(rows, keyed{
					line: domain.PartnerLine{
						EntryID:     e.EntryID,
						Date:        e.Date,
						Ref:         e.Ref,
						AccountID:   l.AccountID,
						AccountName: st.accounts[l.AccountID].Name,
						Debit:       l.Debit,
						Credit:      l.Credit,
						Narration:   narration,
					},
					lineNo: l.LineNo,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, func(a, b keyed) int {
		return cmp.Or(
			a.line.Date.Compare(b.line.Date),
			cmp.Compare(a.line.EntryID, b.line.EntryID),
			cmp.Compare(a.lineNo, b.lineNo),
		)
	})
	out := make([]domain.PartnerLine, len(rows))
	for i, r := range rows {
		out[i] = r.line
	}
	return out, nil
}

func (v *view) CountLinesBetween(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	err := v.read(func(st *state) error {
		for _, e := range st.entries {
			for _, l := range e.Lines {
				if within(l.Date, &from, &to) {
					n++
				}
			}
		}
		return nil
	})
	return n, err
}
