// Package policy is the single place where roles are mapped to what they may do.
// Services ask HasCapability (or one of the ownership helpers) at the point of
// mutation instead of comparing role strings themselves.
package policy

import (
	"strings"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

// Capability is an action a role may be allowed to take.
type Capability string

const (
	CreateTemplate      Capability = "template.create"
	ManageAnyTemplate   Capability = "template.manage_any"
	ViewPrivateTemplate Capability = "template.view_private"

	CreateCampaign    Capability = "campaign.create"
	ManageOwnCampaign Capability = "campaign.manage_own"
	ManageAnyCampaign Capability = "campaign.manage_any"

	ApplyToCampaign      Capability = "application.apply"
	SetApplicationStatus Capability = "application.set_status"
	SetScreeningStatus   Capability = "application.set_screening"
	AdvanceApplication   Capability = "application.advance"
	ViewAnyApplication   Capability = "application.view_any"

	WriteOwnReview Capability = "review.write_own"
	WriteAnyReview Capability = "review.write_any"

	RequestRecommendation Capability = "recommendation.request"

	PublishAvailability    Capability = "interview.publish_availability"
	PublishAnyAvailability Capability = "interview.publish_any_availability"
	BookInterview          Capability = "interview.book"
	ManageInterviews       Capability = "interview.manage"

	ManageCommunicationTemplates Capability = "communication_template.manage"
)

var reviewerCaps = []Capability{WriteOwnReview}

// roleCapabilities is the tagged capability set of every known role. Unknown roles
// get nothing.
var roleCapabilities = map[string]map[Capability]bool{
	domain.RoleAdmin: set(
		CreateTemplate, ManageAnyTemplate, ViewPrivateTemplate,
		CreateCampaign, ManageOwnCampaign, ManageAnyCampaign,
		ApplyToCampaign, SetApplicationStatus, SetScreeningStatus, AdvanceApplication, ViewAnyApplication,
		WriteOwnReview, WriteAnyReview,
		RequestRecommendation,
		PublishAvailability, PublishAnyAvailability, BookInterview, ManageInterviews,
		ManageCommunicationTemplates,
	),
	domain.RoleCoordinator: set(
		CreateTemplate,
		CreateCampaign, ManageOwnCampaign,
		SetApplicationStatus, SetScreeningStatus, AdvanceApplication,
		WriteOwnReview,
		RequestRecommendation,
		PublishAvailability, PublishAnyAvailability, BookInterview, ManageInterviews,
		ManageCommunicationTemplates,
	),
	domain.RoleEvaluator: set(reviewerCaps...),
	domain.RoleReviewer:  set(reviewerCaps...),
	domain.RoleScreener:  set(reviewerCaps...),
	domain.RoleHost:      set(PublishAvailability, ManageInterviews),
	domain.RoleApplicant: set(ApplyToCampaign, RequestRecommendation, BookInterview),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// HasCapability reports whether role grants c.
func HasCapability(role string, c Capability) bool {
	return roleCapabilities[normalize(role)][c]
}

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(a domain.Actor) bool {
	return normalize(a.Role) == domain.RoleAdmin
}

// CanManageCampaign: admins, or the campaign's creator while they still hold a
// campaign-managing role.
func CanManageCampaign(a domain.Actor, c *domain.Campaign) bool {
	if HasCapability(a.Role, ManageAnyCampaign) {
		return true
	}
	return c != nil && c.CreatorID == a.UserID && HasCapability(a.Role, ManageOwnCampaign)
}

// CanManageTemplate: admins, or the template's creator.
func CanManageTemplate(a domain.Actor, t *domain.PathwayTemplate) bool {
	if HasCapability(a.Role, ManageAnyTemplate) {
		return true
	}
	return t != nil && t.CreatorID == a.UserID && a.UserID != ""
}

// CanViewTemplate: public templates are visible to everyone; private ones to their
// creator and admins.
func CanViewTemplate(a domain.Actor, t *domain.PathwayTemplate) bool {
	if t == nil {
		return false
	}
	if !t.IsPrivate {
		return true
	}
	return HasCapability(a.Role, ViewPrivateTemplate) || (a.UserID != "" && t.CreatorID == a.UserID)
}

// CanWriteReview: the reviewer who owns the review, or an admin.
func CanWriteReview(a domain.Actor, reviewerID string) bool {
	if HasCapability(a.Role, WriteAnyReview) {
		return true
	}
	return a.UserID != "" && a.UserID == reviewerID && HasCapability(a.Role, WriteOwnReview)
}
