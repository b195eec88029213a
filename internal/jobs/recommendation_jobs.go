package jobs

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
)

// MarkOverdueRecommendations flags recommendation requests whose reminder
// interval elapsed without a submission.
func (jr *JobRunner) MarkOverdueRecommendations() {
	jr.runWithRecovery("MarkOverdueRecommendations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		marked, err := jr.services.Recommendation.MarkOverdue(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to mark overdue recommendations", "error", err)
			return
		}

		logger.Info("Marked overdue recommendations", "count", marked)
	})
}

// SendRecommendationReminders re-sends the request email to recommenders who
// are due a reminder.
func (jr *JobRunner) SendRecommendationReminders() {
	jr.runWithRecovery("SendRecommendationReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		sent, err := jr.services.Recommendation.SendReminders(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to send recommendation reminders", "error", err)
			return
		}

		logger.Info("Sent recommendation reminders", "count", sent)
	})
}
