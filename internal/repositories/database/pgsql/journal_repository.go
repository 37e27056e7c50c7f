package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
)

const (
	entryColumns = `entry_id, entry_date, ref, narration, source_kind, source_id, created_at, created_by`
	lineColumns  = `line_id, entry_id, line_no, account_id, debit, credit, narration, partner_kind, partner_id, line_date`
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(db DBTX) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntry inserts the entry header and queues its lines in one batch. It
// must run inside a transaction so header and lines land together.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB.Exec(ctx, headerQuery,
		m.EntryID,
		m.EntryDate,
		m.Ref,
		m.Narration,
		m.SourceKind,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return mapError(err, "journal entry", m.EntryID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, l := range entry.Lines {
		ml := mapping.ToModelJournalLine(l)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.LineNo,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Narration,
			ml.PartnerKind,
			ml.PartnerID,
			ml.LineDate,
		)
	}
	// Close reports the first failing statement of the batch.
	if err := r.DB.SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "journal lines of entry", m.EntryID)
	}
	return nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.Ref,
		&m.Narration,
		&m.SourceKind,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func (r *PgxJournalRepository) findHeader(ctx context.Context, where string, args ...any) (models.JournalEntry, error) {
	m, err := scanEntry(r.DB.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE `+where+`;`, args...))
	if err != nil {
		return m, mapError(err, "journal entry", fmt.Sprint(args...))
	}
	return m, nil
}

// linesFor loads the lines of several entries keyed by entry id, in line order.
func (r *PgxJournalRepository) linesFor(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	out := make(map[string][]models.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`,
		entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNo,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Narration,
			&l.PartnerKind,
			&l.PartnerID,
			&l.LineDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return out, nil
}

func (r *PgxJournalRepository) withLines(ctx context.Context, m models.JournalEntry) (*domain.JournalEntry, error) {
	lines, err := r.linesFor(ctx, []string{m.EntryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[m.EntryID])
	return &entry, nil
}

// FindEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	m, err := r.findHeader(ctx, `entry_id = $1`, entryID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, m)
}

// FindEntryBySource retrieves the entry produced by a document.
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, source domain.Ref) (*domain.JournalEntry, error) {
	m, err := r.findHeader(ctx, `source_kind = $1 AND source_id = $2`, string(source.Kind), source.ID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, m)
}

// ListEntries retrieves a page of entries, newest first, using token-based pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries ORDER BY entry_date DESC, entry_id DESC LIMIT $1;`
	args := []any{fetchLimit}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(apperrors.ErrValidation, "invalid nextToken", err)
		}
		query = `SELECT ` + entryColumns + ` FROM journal_entries
			WHERE (entry_date, entry_id) < ($2, $3::uuid)
			ORDER BY entry_date DESC, entry_id DESC LIMIT $1;`
		args = append(args, cursor.Date, cursor.EntryID)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	headers := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	var next *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[len(headers)-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryID)
		next = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, next, nil
}

// CountLines returns the number of persisted journal lines.
func (r *PgxJournalRepository) CountLines(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM journal_lines;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal lines: %w", err)
	}
	return n, nil
}
