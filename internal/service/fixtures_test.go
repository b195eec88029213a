package service_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

// world bundles the repository mocks around one campaign running the fellowship
// template, with application "app-1" owned by the applicant.
type world struct {
	pathways    *MockPathwayRepo
	campaigns   *MockCampaignRepo
	apps        *MockApplicationRepo
	profiles    *MockProfileRepo
	assignments *MockAssignmentRepo
	reviews     *MockReviewRepo
	decisions   *MockDecisionRepo
	recs        *MockRecommendationRepo
	scheduling  *MockSchedulingRepo
	comms       *MockCommunicationRepo

	campaign *domain.Campaign
	app      *domain.Application
	phases   []domain.Phase
}

func newWorld(extra ...domain.Phase) *world {
	w := &world{
		pathways:    new(MockPathwayRepo),
		campaigns:   new(MockCampaignRepo),
		apps:        new(MockApplicationRepo),
		profiles:    new(MockProfileRepo),
		assignments: new(MockAssignmentRepo),
		reviews:     new(MockReviewRepo),
		decisions:   new(MockDecisionRepo),
		recs:        new(MockRecommendationRepo),
		scheduling:  new(MockSchedulingRepo),
		comms:       new(MockCommunicationRepo),
	}
	w.campaign = &domain.Campaign{
		ID:                "camp-1",
		PathwayTemplateID: "t-1",
		CreatorID:         coordinator.UserID,
		Name:              "Fellowship 2026",
		IsPublic:          true,
		Status:            domain.CampaignStatusOpen,
	}
	w.app = &domain.Application{
		ID:              "app-1",
		CampaignID:      "camp-1",
		ApplicantID:     applicant.UserID,
		Status:          domain.ApplicationStatusSubmitted,
		ScreeningStatus: domain.ScreeningPending,
		Data:            map[string]any{"Name": "Ada"},
		Version:         3,
	}
	w.phases = append(fellowshipPhases("t-1"), extra...)

	w.campaigns.On("GetByID", mock.Anything, "camp-1").Return(w.campaign, nil).Maybe()
	w.apps.On("GetByID", mock.Anything, "app-1").Return(w.app, nil).Maybe()
	w.pathways.On("ListPhases", mock.Anything, "t-1").Return(w.phases, nil).Maybe()
	for i := range w.phases {
		w.pathways.On("GetPhase", mock.Anything, w.phases[i].ID).Return(&w.phases[i], nil).Maybe()
	}
	w.profiles.On("GetByID", mock.Anything, applicant.UserID).
		Return(&domain.Profile{ID: applicant.UserID, Email: "ada@example.org", FullName: "Ada Lovelace", Role: domain.RoleApplicant}, nil).Maybe()
	w.profiles.On("GetByID", mock.Anything, coordinator.UserID).
		Return(&domain.Profile{ID: coordinator.UserID, Email: "coord@example.org", FullName: "Grace Hopper", Role: domain.RoleCoordinator}, nil).Maybe()
	w.profiles.On("GetByID", mock.Anything, reviewer.UserID).
		Return(&domain.Profile{ID: reviewer.UserID, Email: "rev@example.org", FullName: "Alan Turing", Role: domain.RoleReviewer}, nil).Maybe()
	return w
}

// at points the application at phaseID.
func (w *world) at(phaseID string) *world {
	id := phaseID
	w.app.CurrentCampaignPhaseID = &id
	return w
}

func recommendationPhase(id string, schedule phaseconfig.ReminderSchedule) domain.Phase {
	return domain.Phase{
		ID: id, PathwayTemplateID: "t-1", Name: "References", Type: phaseconfig.PhaseTypeRecommendation, OrderIndex: 4,
		Config: phaseconfig.RecommendationConfig{
			NumRecommendersRequired: 1,
			RecommenderInformationFields: []phaseconfig.FormField{
				{Label: "Relationship", Type: phaseconfig.FieldText, Required: true},
				{Label: "Letter", Type: phaseconfig.FieldRichTextArea, Required: true},
			},
			ReminderSchedule: schedule,
		},
	}
}

func schedulingPhase(id string) domain.Phase {
	return domain.Phase{
		ID: id, PathwayTemplateID: "t-1", Name: "Interview", Type: phaseconfig.PhaseTypeScheduling, OrderIndex: 5,
		Config: phaseconfig.SchedulingConfig{
			InterviewDuration:    30,
			BufferTime:           15,
			HostSelection:        "any",
			AutomatedMeetingLink: "https://meet.example.org/fellowship",
		},
	}
}

func emailPhase(id string, roles ...string) domain.Phase {
	return domain.Phase{
		ID: id, PathwayTemplateID: "t-1", Name: "Notify", Type: phaseconfig.PhaseTypeEmail, OrderIndex: 6,
		Config: phaseconfig.EmailConfig{
			Subject:        "Update on {{campaign_name}}",
			Body:           "Dear {{applicant_name}}, your application {{application_id}} is {{application_status}}.",
			RecipientRoles: roles,
			TriggerEvent:   phaseconfig.TriggerPhaseStart,
		},
	}
}
