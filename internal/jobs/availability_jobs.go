package jobs

import (
	"context"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
)

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Checked int
	Changed int
	Failed  int
}

// ReconcileAvailability re-derives every car's availability flag from its
// reservations. Each car is handled in its own transaction, so one failure
// does not stop the pass.
func (jr *JobRunner) ReconcileAvailability() {
	jr.runWithRecovery("ReconcileAvailability", func() {
		jr.reconcile(context.Background())
	})
}

func (jr *JobRunner) reconcile(ctx context.Context) ReconcileResult {
	var res ReconcileResult

	ids, err := jr.cars.ListIDs(ctx)
	if err != nil {
		logger.Error("Failed to list cars", "error", err)
		return res
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			logger.Warn("Reconciliation interrupted", "error", ctx.Err())
			break
		}
		res.Checked++
		changed, err := jr.booking.RecomputeAvailability(ctx, id)
		if err != nil {
			// The car may have been deleted since the listing.
			if domain.IsNotFound(err) {
				continue
			}
			res.Failed++
			logger.Error("Failed to recompute availability", "car_id", id, "error", err)
			continue
		}
		if changed {
			res.Changed++
			logger.Warn("Availability flag was stale and has been corrected", "car_id", id)
		}
	}

	logger.Info("Availability reconciled", "checked", res.Checked, "changed", res.Changed, "failed", res.Failed)
	return res
}
