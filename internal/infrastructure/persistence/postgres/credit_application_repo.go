package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
	pgutil "github.com/coopcredit/coopcredit/pkg/postgres"
)

var _ port.CreditApplicationRepository = (*CreditApplicationRepo)(nil)

const applicationSelect = `
	SELECT a.id, a.affiliate_id, a.requested_amount, a.term_months, a.proposed_rate,
	       a.requested_at, a.status, a.rejection_reason, a.evaluation_failure,
	       a.version, a.updated_at,
	       r.document, r.score, r.risk_level, r.detail, r.evaluated_at
	FROM credit_applications a
	LEFT JOIN risk_evaluations r ON r.application_id = a.id`

// CreditApplicationRepo implements port.CreditApplicationRepository. The
// attached risk evaluation lives in its own table and is written in the same
// transaction as the application.
type CreditApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewCreditApplicationRepo creates a new repository backed by PostgreSQL.
func NewCreditApplicationRepo(pool *pgxpool.Pool) *CreditApplicationRepo {
	return &CreditApplicationRepo{pool: pool}
}

// Save upserts the application with optimistic locking. A decided
// application is never overwritten: the update only applies while the stored
// row is still PENDING at the expected version, otherwise
// port.ErrConcurrentUpdate is returned.
func (r *CreditApplicationRepo) Save(ctx context.Context, app model.CreditApplication) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO credit_applications (
				id, affiliate_id, requested_amount, term_months, proposed_rate,
				requested_at, status, rejection_reason, evaluation_failure,
				version, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (id) DO UPDATE SET
				status             = EXCLUDED.status,
				rejection_reason   = EXCLUDED.rejection_reason,
				evaluation_failure = EXCLUDED.evaluation_failure,
				version            = credit_applications.version + 1,
				updated_at         = EXCLUDED.updated_at
			WHERE credit_applications.version = $10
			  AND credit_applications.status = 'PENDING'
		`
		tag, err := tx.Exec(ctx, query,
			app.ID(), app.AffiliateID(), app.RequestedAmount(), app.TermMonths(), app.ProposedRate(),
			app.RequestedAt(), app.Status().String(), nullString(app.RejectionReason()), app.EvaluationFailed(),
			app.Version(), app.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save credit application: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("credit application %s: %w", app.ID(), port.ErrConcurrentUpdate)
		}

		risk := app.RiskEvaluation()
		if risk == nil {
			return nil
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO risk_evaluations (application_id, document, score, risk_level, detail, evaluated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (application_id) DO UPDATE SET
				document     = EXCLUDED.document,
				score        = EXCLUDED.score,
				risk_level   = EXCLUDED.risk_level,
				detail       = EXCLUDED.detail,
				evaluated_at = EXCLUDED.evaluated_at
		`,
			app.ID(), risk.Document(), risk.ScoreOrNil(), risk.Level().String(),
			nullString(risk.Detail()), risk.EvaluatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save risk evaluation: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a single application with its risk evaluation.
func (r *CreditApplicationRepo) FindByID(ctx context.Context, id string) (model.CreditApplication, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if isNoRows(err) {
		return model.CreditApplication{}, model.NotFoundError("credit application %s", id)
	}
	return app, err
}

// FindAll lists every application, newest first.
func (r *CreditApplicationRepo) FindAll(ctx context.Context) ([]model.CreditApplication, error) {
	return r.scanMany(ctx, applicationSelect+` ORDER BY a.requested_at DESC, a.id`)
}

// FindByAffiliateID lists an affiliate's applications, newest first.
func (r *CreditApplicationRepo) FindByAffiliateID(ctx context.Context, affiliateID string) ([]model.CreditApplication, error) {
	return r.scanMany(ctx, applicationSelect+` WHERE a.affiliate_id = $1 ORDER BY a.requested_at DESC, a.id`, affiliateID)
}

// FindByStatus lists applications in the given status, oldest first so
// pending work is processed in arrival order.
func (r *CreditApplicationRepo) FindByStatus(ctx context.Context, status valueobject.ApplicationStatus) ([]model.CreditApplication, error) {
	return r.scanMany(ctx, applicationSelect+` WHERE a.status = $1 ORDER BY a.requested_at, a.id`, status.String())
}

func (r *CreditApplicationRepo) scanMany(ctx context.Context, query string, args ...any) ([]model.CreditApplication, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query credit applications: %w", err)
	}
	defer rows.Close()

	var result []model.CreditApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func scanApplication(s scannable) (model.CreditApplication, error) {
	var (
		id, affiliateID   string
		requestedAmount   decimal.Decimal
		termMonths        int
		proposedRate      decimal.Decimal
		requestedAt       time.Time
		statusStr         string
		rejectionReason   *string
		evaluationFailure bool
		version           int
		updatedAt         time.Time

		riskDocument *string
		riskScore    *int
		riskLevel    *string
		riskDetail   *string
		evaluatedAt  *time.Time
	)

	err := s.Scan(
		&id, &affiliateID, &requestedAmount, &termMonths, &proposedRate,
		&requestedAt, &statusStr, &rejectionReason, &evaluationFailure,
		&version, &updatedAt,
		&riskDocument, &riskScore, &riskLevel, &riskDetail, &evaluatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.CreditApplication{}, err
		}
		return model.CreditApplication{}, fmt.Errorf("scan credit application: %w", err)
	}

	status, err := valueobject.NewApplicationStatus(statusStr)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("parse status: %w", err)
	}
	decision, err := model.DecisionFromStatus(status, derefString(rejectionReason), evaluationFailure)
	if err != nil {
		return model.CreditApplication{}, fmt.Errorf("credit application %s: %w", id, err)
	}

	var risk *model.RiskEvaluation
	if riskLevel != nil {
		level, err := valueobject.RiskLevelFromString(*riskLevel)
		if err != nil {
			return model.CreditApplication{}, fmt.Errorf("parse risk level: %w", err)
		}
		var at time.Time
		if evaluatedAt != nil {
			at = *evaluatedAt
		}
		eval := model.NewRiskEvaluation(derefString(riskDocument), riskScore, level, derefString(riskDetail), at)
		risk = &eval
	}

	return model.ReconstructCreditApplication(
		id, affiliateID, requestedAmount, termMonths, proposedRate,
		requestedAt, decision, risk, version, updatedAt,
	), nil
}
