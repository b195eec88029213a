package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
)

type schedulingRepository struct {
	db *sql.DB
}

func NewSchedulingRepository(db *sql.DB) repository.SchedulingRepository {
	return &schedulingRepository{db: db}
}

const interviewColumns = `id, application_id, campaign_phase_id, applicant_id, host_id, start_time, end_time, status, COALESCE(meeting_link, ''), created_at, updated_at`

func scanInterview(row rowScanner) (*domain.ScheduledInterview, error) {
	iv := &domain.ScheduledInterview{}
	if err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.CampaignPhaseID, &iv.ApplicantID, &iv.HostID, &iv.StartTime, &iv.EndTime, &iv.Status, &iv.MeetingLink, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
		return nil, err
	}
	return iv, nil
}

func (r *schedulingRepository) AddAvailability(ctx context.Context, a *domain.HostAvailability) error {
	logger.EnterMethod("schedulingRepository.AddAvailability", "hostID", a.HostID)

	err := withTx(ctx, r.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(tx *sql.Tx) error {
		var overlapping int
		err := tx.QueryRowContext(ctx, `
			SELECT count(*) FROM host_availabilities
			WHERE host_id = $1 AND start_time < $2 AND end_time > $3`,
			a.HostID, a.EndTime, a.StartTime).Scan(&overlapping)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return domain.ErrConflict.With("availability overlaps an existing window of host %s", a.HostID)
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO host_availabilities (id, host_id, start_time, end_time, created_at)
			VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
			a.ID, a.HostID, a.StartTime, a.EndTime, time.Now()).Scan(&a.CreatedAt)
	})
	if err != nil {
		logger.ExitMethodWithError("schedulingRepository.AddAvailability", err, "hostID", a.HostID)
		return mapError(err)
	}

	logger.ExitMethod("schedulingRepository.AddAvailability", "availabilityID", a.ID)
	return nil
}

func (r *schedulingRepository) ListAvailability(ctx context.Context, hostID string) ([]domain.HostAvailability, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, host_id, start_time, end_time, created_at FROM host_availabilities WHERE host_id = $1 ORDER BY start_time`, hostID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.HostAvailability
	for rows.Next() {
		var a domain.HostAvailability
		if err := rows.Scan(&a.ID, &a.HostID, &a.StartTime, &a.EndTime, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const (
	hostOverlapQuery = `SELECT count(*) FROM scheduled_interviews
		WHERE host_id = $1 AND status = $2 AND start_time < $3 AND end_time > $4`
	applicantOverlapQuery = `SELECT count(*) FROM scheduled_interviews
		WHERE applicant_id = $1 AND status = $2 AND start_time < $3 AND end_time > $4`
)

// bookingAttempts bounds the retries of a booking that lost a serialization race.
const bookingAttempts = 3

// BookInterview runs every check and the insert under SERIALIZABLE isolation, so
// of two overlapping bookings for the same person at most one commits. The loser
// is retried and then fails its overlap check with HostUnavailable or
// ApplicantDoubleBooked.
func (r *schedulingRepository) BookInterview(ctx context.Context, iv *domain.ScheduledInterview, buffer time.Duration) error {
	logger.EnterMethod("schedulingRepository.BookInterview", "hostID", iv.HostID, "applicantID", iv.ApplicantID, "start", iv.StartTime)

	var err error
	for attempt := 1; attempt <= bookingAttempts; attempt++ {
		err = r.bookOnce(ctx, iv, buffer)
		if !isSerializationFailure(err) {
			break
		}
		logger.Warn("Retrying interview booking after serialization failure", "hostID", iv.HostID, "attempt", attempt)
	}
	if err != nil {
		logger.ExitMethodWithError("schedulingRepository.BookInterview", err, "hostID", iv.HostID)
		return mapError(err)
	}

	logger.ExitMethod("schedulingRepository.BookInterview", "interviewID", iv.ID)
	return nil
}

func (r *schedulingRepository) bookOnce(ctx context.Context, iv *domain.ScheduledInterview, buffer time.Duration) error {
	return withTx(ctx, r.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(tx *sql.Tx) error {
		var windows int
		err := tx.QueryRowContext(ctx, `
			SELECT count(*) FROM host_availabilities
			WHERE host_id = $1 AND start_time <= $2 AND end_time >= $3`,
			iv.HostID, iv.StartTime, iv.EndTime).Scan(&windows)
		if err != nil {
			return err
		}
		if windows == 0 {
			return domain.ErrOutsideAvailability.With("host %s has no availability covering %s", iv.HostID, iv.StartTime.Format(time.RFC3339))
		}

		start, end := iv.StartTime.Add(-buffer), iv.EndTime.Add(buffer)
		var clashes int
		if err := tx.QueryRowContext(ctx, hostOverlapQuery, iv.HostID, domain.InterviewBooked, end, start).Scan(&clashes); err != nil {
			return err
		}
		if clashes > 0 {
			return domain.ErrHostUnavailable.With("host %s is booked during the requested slot", iv.HostID)
		}
		// the buffer is host turnaround; applicants only need [start,end) to be free
		if err := tx.QueryRowContext(ctx, applicantOverlapQuery, iv.ApplicantID, domain.InterviewBooked, iv.EndTime, iv.StartTime).Scan(&clashes); err != nil {
			return err
		}
		if clashes > 0 {
			return domain.ErrApplicantDoubleBooked.With("applicant %s already has an interview during the requested slot", iv.ApplicantID)
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO scheduled_interviews (id, application_id, campaign_phase_id, applicant_id, host_id, start_time, end_time, status, meeting_link, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			RETURNING created_at, updated_at`,
			iv.ID, iv.ApplicationID, iv.CampaignPhaseID, iv.ApplicantID, iv.HostID, iv.StartTime, iv.EndTime, iv.Status, iv.MeetingLink, time.Now()).
			Scan(&iv.CreatedAt, &iv.UpdatedAt)
	})
}

func (r *schedulingRepository) GetInterview(ctx context.Context, id string) (*domain.ScheduledInterview, error) {
	iv, err := scanInterview(r.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM scheduled_interviews WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return iv, nil
}

func (r *schedulingRepository) SetInterviewStatus(ctx context.Context, id string, status domain.InterviewStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scheduled_interviews SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		status, time.Now(), id, domain.InterviewBooked)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res, domain.ErrInterviewNotCancelable.With("interview %s is not booked", id))
}

func (r *schedulingRepository) ListInterviews(ctx context.Context, applicationID, phaseID string) ([]domain.ScheduledInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM scheduled_interviews
	          WHERE application_id = $1 AND campaign_phase_id = $2 ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, applicationID, phaseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.ScheduledInterview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}
