package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
)

const defaultPageSize = 20

func (v *view) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	return v.write(func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		if entry.Source != nil {
			if _, ok := st.sources[*entry.Source]; ok {
				return fmt.Errorf("%w: journal entry source %s", apperrors.ErrDuplicate, entry.Source)
			}
		}
		for _, l := range entry.Lines {
			if _, ok := st.accounts[l.AccountID]; !ok {
				return apperrors.NewValidationError("journal line references missing account %s", l.AccountID)
			}
		}

		entry.Lines = slices.Clone(entry.Lines)
		st.entries[entry.EntryID] = entry
		if entry.Source != nil {
			st.sources[*entry.Source] = entry.EntryID
		}
		for _, l := range entry.Lines {
			st.accountUse[l.AccountID]++
		}
		return nil
	})
}

func (v *view) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := v.read(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFoundError("journal entry", entryID)
		}
		out = &e
		return nil
	})
	return out, err
}

func (v *view) FindEntryBySource(_ context.Context, source domain.Ref) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := v.read(func(st *state) error {
		id, ok := st.sources[source]
		if !ok {
			return apperrors.NewNotFoundError("journal entry", source.String())
		}
		e := st.entries[id]
		out = &e
		return nil
	})
	return out, err
}

// ListEntries pages entries by (date, id) descending, the same order and
// token format as the SQL implementation.
func (v *view) ListEntries(_ context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrValidation, "invalid nextToken", err)
		}
		cursor = &c
	}

	var page []domain.JournalEntry
	var next *string
	err := v.read(func(st *state) error {
		all := make([]domain.JournalEntry, 0, len(st.entries))
		for _, e := range st.entries {
			if cursor == nil || cursor.After(e.Date, e.EntryID) {
				all = append(all, e)
			}
		}
		slices.SortFunc(all, func(a, b domain.JournalEntry) int {
			return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(b.EntryID, a.EntryID))
		})
		if len(all) > limit {
			all = all[:limit]
			last := all[len(all)-1]
			token := pagination.EncodeToken(last.Date, last.EntryID)
			next = &token
		}
		page = all
		return nil
	})
	return page, next, err
}

func (v *view) CountLines(_ context.Context) (int, error) {
	n := 0
	err := v.read(func(st *state) error {
		for _, e := range st.entries {
			n += len(e.Lines)
		}
		return nil
	})
	return n, err
}
