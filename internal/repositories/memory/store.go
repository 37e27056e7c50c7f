// Package memory keeps every repository port in process memory. It backs the
// service tests and STORAGE_DRIVER=memory runs.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
)

type seqKey struct {
	scope domain.SequenceScope
	year  int
}

// state is one snapshot of all tables. Stored values are never mutated in
// place; updates replace the map entry.
type state struct {
	accounts         map[string]domain.Account
	contacts         map[string]domain.Contact
	products         map[string]domain.Product
	entries          map[string]domain.JournalEntry
	sources          map[domain.Ref]string
	accountUse       map[string]int
	bills            map[string]domain.VendorBill
	invoices         map[string]domain.CustomerInvoice
	purchaseOrders   map[string]domain.PurchaseOrder
	salesOrders      map[string]domain.SalesOrder
	payments         map[string]domain.Payment
	customerPayments map[string]domain.CustomerPayment
	numbers          map[string]struct{}
	counters         map[seqKey]int
}

func newState() *state {
	return &state{
		accounts:         make(map[string]domain.Account),
		contacts:         make(map[string]domain.Contact),
		products:         make(map[string]domain.Product),
		entries:          make(map[string]domain.JournalEntry),
		sources:          make(map[domain.Ref]string),
		accountUse:       make(map[string]int),
		bills:            make(map[string]domain.VendorBill),
		invoices:         make(map[string]domain.CustomerInvoice),
		purchaseOrders:   make(map[string]domain.PurchaseOrder),
		salesOrders:      make(map[string]domain.SalesOrder),
		payments:         make(map[string]domain.Payment),
		customerPayments: make(map[string]domain.CustomerPayment),
		numbers:          make(map[string]struct{}),
		counters:         make(map[seqKey]int),
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:         maps.Clone(s.accounts),
		contacts:         maps.Clone(s.contacts),
		products:         maps.Clone(s.products),
		entries:          maps.Clone(s.entries),
		sources:          maps.Clone(s.sources),
		accountUse:       maps.Clone(s.accountUse),
		bills:            maps.Clone(s.bills),
		invoices:         maps.Clone(s.invoices),
		purchaseOrders:   maps.Clone(s.purchaseOrders),
		salesOrders:      maps.Clone(s.salesOrders),
		payments:         maps.Clone(s.payments),
		customerPayments: maps.Clone(s.customerPayments),
		numbers:          maps.Clone(s.numbers),
		counters:         maps.Clone(s.counters),
	}
}

// Store holds the committed snapshot. Writers, transactional or not, are
// serialised by txMu and publish a new snapshot on success, so a failed
// transaction leaves nothing behind. Readers only take mu.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn against a private copy of the data and publishes it when
// fn returns nil. Transactions run one at a time, which stands in for the
// row locks of the SQL implementation.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, (&view{store: s, tx: work}).txRepositories()); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	v := &view{store: s}
	return portsrepo.RepositoryProvider{
		AccountRepo:         v,
		JournalRepo:         v,
		ContactRepo:         v,
		ProductRepo:         v,
		BillRepo:            v,
		PaymentRepo:         v,
		InvoiceRepo:         v,
		CustomerPaymentRepo: v,
		PurchaseOrderRepo:   v,
		SalesOrderRepo:      v,
		ReportingRepo:       v,
		Tx:                  s,
	}
}

// AddContact stores master data that the service itself never writes.
func (s *Store) AddContact(c domain.Contact) {
	_ = (&view{store: s}).write(func(st *state) error {
		st.contacts[c.ContactID] = c
		return nil
	})
}

// AddProduct stores a product for default price and tax lookups.
func (s *Store) AddProduct(p domain.Product) {
	_ = (&view{store: s}).write(func(st *state) error {
		st.products[p.ProductID] = p
		return nil
	})
}

// view implements every repository port. With tx set it works on the
// transaction's private copy; otherwise on the committed snapshot.
type view struct {
	store *Store
	tx    *state
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*view)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*view)(nil)
	_ portsrepo.ContactReader             = (*view)(nil)
	_ portsrepo.ProductReader             = (*view)(nil)
	_ portsrepo.VendorBillRepository      = (*view)(nil)
	_ portsrepo.PaymentRepository         = (*view)(nil)
	_ portsrepo.CustomerInvoiceRepository = (*view)(nil)
	_ portsrepo.CustomerPaymentRepository = (*view)(nil)
	_ portsrepo.PurchaseOrderRepository   = (*view)(nil)
	_ portsrepo.SalesOrderRepository      = (*view)(nil)
	_ portsrepo.SequenceRepository        = (*view)(nil)
	_ portsrepo.ReportingRepository       = (*view)(nil)
)

func (v *view) txRepositories() portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:         v,
		Journals:         v,
		Contacts:         v,
		Products:         v,
		Bills:            v,
		Payments:         v,
		Invoices:         v,
		CustomerPayments: v,
		PurchaseOrders:   v,
		SalesOrders:      v,
		Sequences:        v,
	}
}

func (v *view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.data)
}

// write applies fn atomically. Outside a transaction it behaves like a
// single-statement transaction.
func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()

	v.store.mu.RLock()
	next := v.store.data.clone()
	v.store.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}
	v.store.mu.Lock()
	v.store.data = next
	v.store.mu.Unlock()
	return nil
}
