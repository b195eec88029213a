package domain

import "time"

// HostAvailability is a window in which a host accepts interviews.
type HostAvailability struct {
	ID        string    `json:"id"`
	HostID    string    `json:"host_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

type InterviewStatus string

const (
	InterviewBooked    InterviewStatus = "booked"
	InterviewCanceled  InterviewStatus = "canceled"
	InterviewCompleted InterviewStatus = "completed"
)

// ScheduledInterview occupies [StartTime, EndTime) for both host and applicant.
type ScheduledInterview struct {
	ID              string          `json:"id"`
	ApplicationID   string          `json:"application_id"`
	CampaignPhaseID string          `json:"campaign_phase_id"`
	ApplicantID     string          `json:"applicant_id"`
	HostID          string          `json:"host_id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Status          InterviewStatus `json:"status"`
	MeetingLink     string          `json:"meeting_link,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Overlaps is the half-open interval test used for double-booking checks.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
