package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-approval/internal/domain/loan"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

const loanColumns = "id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at"

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func scanLoan(row pgx.Row, l *loan.Loan) error {
	return row.Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &l.Tenure, &l.InterestRate,
		&l.MonthlyRepayment, &l.EMIsPaidOnTime, &l.StartDate, &l.EndDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	start := time.Now()
	loanSQL := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING ` + loanColumns

	var createdLoan loan.Loan
	err := scanLoan(r.db.QueryRow(ctx, loanSQL,
		newLoan.CustomerID, newLoan.LoanAmount, newLoan.Tenure, newLoan.InterestRate,
		newLoan.MonthlyRepayment, newLoan.EMIsPaidOnTime, newLoan.StartDate, newLoan.EndDate,
	), &createdLoan)
	if err != nil {
		monitoring.RecordDBQuery("create_loan", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery("create_loan", "success", time.Since(start))
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", createdLoan.ID)
	return &createdLoan, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	start := time.Now()
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var l loan.Loan
	err := scanLoan(r.db.QueryRow(ctx, query, loanID), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			monitoring.RecordDBQuery("get_loan_by_id", "not_found", time.Since(start))
			return nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		monitoring.RecordDBQuery("get_loan_by_id", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query loan", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf("%w: failed to query loan %d: %w", apperrors.ErrDatabase, loanID, err)
	}

	monitoring.RecordDBQuery("get_loan_by_id", "success", time.Since(start))
	return &l, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY id`
	return r.listLoans(ctx, "list_by_customer", query, customerID)
}

func (r *LoanRepository) ListByStartYear(ctx context.Context, year int) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE EXTRACT(YEAR FROM start_date) = $1 ORDER BY id`
	return r.listLoans(ctx, "list_by_start_year", query, year)
}

func (r *LoanRepository) listLoans(ctx context.Context, queryName, query string, arg any) ([]loan.Loan, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query loans", "query_name", queryName, "error", err)
		return nil, fmt.Errorf("%w: failed to query loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		if err := scanLoan(rows, &l); err != nil {
			monitoring.RecordDBQuery(queryName, "error", time.Since(start))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "query_name", queryName, "error", err)
			return nil, fmt.Errorf("%w: failed to scan loan row: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(start))
		return nil, fmt.Errorf("%w: loan rows iteration failed: %w", apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery(queryName, "success", time.Since(start))
	return loans, nil
}

func (r *LoanRepository) ListCustomerIDsWithLoans(ctx context.Context) ([]int64, error) {
	start := time.Now()
	query := `SELECT DISTINCT customer_id FROM loans ORDER BY customer_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("list_customer_ids_with_loans", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query customer IDs with loans", "error", err)
		return nil, fmt.Errorf("%w: failed to query customer IDs: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			monitoring.RecordDBQuery("list_customer_ids_with_loans", "error", time.Since(start))
			return nil, fmt.Errorf("%w: failed to scan customer ID: %w", apperrors.ErrDatabase, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("list_customer_ids_with_loans", "error", time.Since(start))
		return nil, fmt.Errorf("%w: customer ID rows iteration failed: %w", apperrors.ErrDatabase, err)
	}

	monitoring.RecordDBQuery("list_customer_ids_with_loans", "success", time.Since(start))
	return ids, nil
}
