package memory

import (
	"context"
	"strings"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// LockCounter seeds a missing counter from the numbers already stored. The
// lock itself is the transaction's hold on the store.
func (v *view) LockCounter(_ context.Context, scope domain.SequenceScope, year int) (int, error) {
	var last int
	err := v.write(func(st *state) error {
		key := seqKey{scope: scope, year: year}
		if n, ok := st.counters[key]; ok {
			last = n
			return nil
		}
		prefix := domain.NumberPrefix(scope, year)
		for number := range st.numbers {
			if !strings.HasPrefix(number, prefix) {
				continue
			}
			if n, ok := domain.ParseSequenceSuffix(number); ok && n > last {
				last = n
			}
		}
		st.counters[key] = last
		return nil
	})
	return last, err
}

func (v *view) NumberExists(_ context.Context, _ domain.SequenceScope, number string) (bool, error) {
	var exists bool
	err := v.read(func(st *state) error {
		_, exists = st.numbers[number]
		return nil
	})
	return exists, err
}

func (v *view) StoreCounter(_ context.Context, scope domain.SequenceScope, year int, value int) error {
	return v.write(func(st *state) error {
		st.counters[seqKey{scope: scope, year: year}] = value
		return nil
	})
}
