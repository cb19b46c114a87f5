package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
)

// DebtSyncJob recomputes every borrowing customer's current debt as the sum
// of monthly repayment times remaining installments over their loans.
type DebtSyncJob struct {
	loanRepo     loan.Repository
	customerRepo customer.CustomerRepository
	logger       *slog.Logger
}

func NewDebtSyncJob(
	loanRepo loan.Repository,
	customerRepo customer.CustomerRepository,
	logger *slog.Logger,
) *DebtSyncJob {
	if loanRepo == nil || customerRepo == nil || logger == nil {
		panic("DebtSyncJob dependencies cannot be nil")
	}
	return &DebtSyncJob{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		logger:       logger.With("job", "DebtSync"),
	}
}

// outstandingDebt sums what remains to be paid across a customer's loans.
// Loans with all installments paid contribute nothing.
func outstandingDebt(loans []loan.Loan) loan.Money {
	var total loan.Money
	for i := range loans {
		remaining := loans[i].RepaymentsLeft()
		if remaining <= 0 {
			continue
		}
		total += loans[i].MonthlyRepayment * loan.Money(remaining)
	}
	return total
}

func (j *DebtSyncJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily customer debt sync job.")

	customerIDs, err := j.loanRepo.ListCustomerIDsWithLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list customers with loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list customers with loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched customers with loans.", slog.Int("count", len(customerIDs)))

	if len(customerIDs) == 0 {
		j.logger.InfoContext(ctx, "No customers with loans to process.")
		j.logger.InfoContext(ctx, "Customer debt sync job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processedCount, updatedCount, errorCount int32

	for _, customerID := range customerIDs {
		wg.Add(1)
		go func(currentCustomerID int64) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("customerID", currentCustomerID))

			loans, listErr := j.loanRepo.ListByCustomer(ctx, currentCustomerID)
			if listErr != nil {
				logCtx.ErrorContext(ctx, "Failed to load customer loans", slog.Any("error", listErr))
				atomic.AddInt32(&errorCount, 1)
				return
			}

			debt := outstandingDebt(loans)
			logCtx.DebugContext(ctx, "Computed outstanding debt.", slog.Float64("debt", debt))

			updateErr := j.customerRepo.UpdateCurrentDebt(ctx, currentCustomerID, debt)
			if updateErr != nil {
				if errors.Is(updateErr, customer.ErrNotFound) || errors.Is(updateErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Customer has loans but no customer record (data inconsistency?)", slog.Any("error", updateErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to update customer current debt", slog.Any("error", updateErr))
					atomic.AddInt32(&errorCount, 1)
				}
				return
			}

			atomic.AddInt32(&updatedCount, 1)
			atomic.AddInt32(&processedCount, 1)
		}(customerID)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("customers_with_loans", len(customerIDs)),
		slog.Int("customers_processed", int(atomic.LoadInt32(&processedCount))),
		slog.Int("customers_updated", int(atomic.LoadInt32(&updatedCount))),
		slog.Int("errors_encountered", int(atomic.LoadInt32(&errorCount))),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Customer debt sync job finished with errors.")
	} else {
		summaryLog.InfoContext(ctx, "Customer debt sync job finished successfully.")
	}

	if errorCount > 0 {
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	return nil
}
