package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

var _ port.AffiliateRepository = (*AffiliateRepo)(nil)

const affiliateColumns = `
	id, document, name, salary, affiliation_date, status,
	version, created_at, updated_at`

// AffiliateRepo implements port.AffiliateRepository.
type AffiliateRepo struct {
	pool *pgxpool.Pool
}

// NewAffiliateRepo creates a new repository backed by PostgreSQL.
func NewAffiliateRepo(pool *pgxpool.Pool) *AffiliateRepo {
	return &AffiliateRepo{pool: pool}
}

// Save persists an affiliate (upsert by ID with optimistic locking). A
// document already owned by another affiliate is a business rule violation.
func (r *AffiliateRepo) Save(ctx context.Context, a model.Affiliate) error {
	query := `
		INSERT INTO affiliates (` + affiliateColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			document         = EXCLUDED.document,
			name             = EXCLUDED.name,
			salary           = EXCLUDED.salary,
			affiliation_date = EXCLUDED.affiliation_date,
			status           = EXCLUDED.status,
			version          = affiliates.version + 1,
			updated_at       = EXCLUDED.updated_at
		WHERE affiliates.version = $7
	`
	tag, err := r.pool.Exec(ctx, query,
		a.ID(), a.Document(), a.Name(), a.Salary(), a.AffiliationDate(),
		a.Status().String(), a.Version(), a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "affiliates_document_key") {
			return model.BusinessRuleError("an affiliate with document %s already exists", a.Document())
		}
		return fmt.Errorf("save affiliate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("affiliate %s: %w", a.ID(), port.ErrConcurrentUpdate)
	}
	return nil
}

// FindByID retrieves a single affiliate.
func (r *AffiliateRepo) FindByID(ctx context.Context, id string) (model.Affiliate, error) {
	query := `SELECT` + affiliateColumns + ` FROM affiliates WHERE id = $1`
	a, err := scanAffiliate(r.pool.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Affiliate{}, model.NotFoundError("affiliate %s", id)
	}
	return a, err
}

// FindByDocument retrieves the affiliate owning a document.
func (r *AffiliateRepo) FindByDocument(ctx context.Context, document string) (model.Affiliate, error) {
	query := `SELECT` + affiliateColumns + ` FROM affiliates WHERE document = $1`
	a, err := scanAffiliate(r.pool.QueryRow(ctx, query, document))
	if isNoRows(err) {
		return model.Affiliate{}, model.NotFoundError("affiliate with document %s", document)
	}
	return a, err
}

// ExistsByDocument reports whether any affiliate owns the document.
func (r *AffiliateRepo) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM affiliates WHERE document = $1)`, document,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check affiliate document: %w", err)
	}
	return exists, nil
}

// FindAll lists every affiliate, oldest first.
func (r *AffiliateRepo) FindAll(ctx context.Context) ([]model.Affiliate, error) {
	query := `SELECT` + affiliateColumns + ` FROM affiliates ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query affiliates: %w", err)
	}
	defer rows.Close()

	var result []model.Affiliate
	for rows.Next() {
		a, err := scanAffiliate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanAffiliate(s scannable) (model.Affiliate, error) {
	var (
		id, document, name   string
		salary               decimal.Decimal
		affiliationDate      time.Time
		statusStr            string
		version              int
		createdAt, updatedAt time.Time
	)
	err := s.Scan(
		&id, &document, &name, &salary, &affiliationDate, &statusStr,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Affiliate{}, err
		}
		return model.Affiliate{}, fmt.Errorf("scan affiliate: %w", err)
	}

	status, err := valueobject.NewAffiliateStatus(statusStr)
	if err != nil {
		return model.Affiliate{}, fmt.Errorf("parse affiliate status: %w", err)
	}

	return model.ReconstructAffiliate(
		id, document, name, salary, affiliationDate, status,
		version, createdAt, updatedAt,
	), nil
}
