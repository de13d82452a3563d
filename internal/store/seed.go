package store

import (
	"time"

	"github.com/google/uuid"
)

// Default tier names.
const (
	TierFree  = "Free"
	TierOne   = "Tier 1"
	TierTwo   = "Tier 2"
	TierThree = "Tier 3"
)

// DefaultTiers returns the built-in plan catalog. The Free tier carries the
// one-time shortlist allotment; paid tiers include company emails.
func DefaultTiers() []Tier {
	now := time.Now().UTC()
	return []Tier{
		{
			ID:                        uuid.New(),
			Name:                      TierFree,
			MonthlyJobAllotment:       1,
			MonthlyCandidateAllotment: 20,
			IncludesCompanyEmails:     false,
			CreatedAt:                 now,
		},
		{
			ID:                        uuid.New(),
			Name:                      TierOne,
			MonthlyJobAllotment:       1,
			MonthlyCandidateAllotment: 50,
			IncludesCompanyEmails:     true,
			CreatedAt:                 now,
		},
		{
			ID:                        uuid.New(),
			Name:                      TierTwo,
			MonthlyJobAllotment:       3,
			MonthlyCandidateAllotment: 150,
			IncludesCompanyEmails:     true,
			CreatedAt:                 now,
		},
		{
			ID:                        uuid.New(),
			Name:                      TierThree,
			MonthlyJobAllotment:       10,
			MonthlyCandidateAllotment: 400,
			IncludesCompanyEmails:     true,
			CreatedAt:                 now,
		},
	}
}

// DemoClient returns a sample client on the given tier, used by the seed command.
func DemoClient(tier Tier) Client {
	now := time.Now().UTC()
	return Client{
		ID:               uuid.New(),
		CompanyName:      "TechCorp AI Solutions",
		ContactName:      "Sarah Johnson",
		Email:            "sarah.johnson@techcorp.ai",
		Phone:            "+1 (555) 123-4567",
		TierID:           tier.ID,
		AvailableCredits: tier.MonthlyCandidateAllotment,
		JobsRemaining:    tier.MonthlyJobAllotment,
		CreditsResetDate: now.AddDate(0, 0, 30),
		CreatedAt:        now,
	}
}

// DemoJob returns a sample unclaimed job for the demo client.
func DemoJob(clientID uuid.UUID) Job {
	now := time.Now().UTC()
	return Job{
		ID:              uuid.New(),
		ClientID:        clientID,
		Title:           "Senior AI Engineer",
		Description:     "Design and implement ML models and data pipelines; collaborate across teams to ship AI features to production.",
		SeniorityLevel:  SenioritySenior,
		WorkArrangement: ArrangementHybrid,
		Location:        "San Francisco, CA",
		SalaryRangeMin:  150000,
		SalaryRangeMax:  220000,
		KeySellingPoints: []string{
			"Competitive salary with equity package",
			"Work on cutting-edge AI projects",
			"Flexible hybrid work arrangement",
		},
		Status:              StatusUnclaimed,
		CandidatesRequested: 15,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
