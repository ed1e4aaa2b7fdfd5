package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BudgetAllocation splits a total trip budget into per-category sub-budgets.
// Contingency is deliberate slack for taxes and fees; it is never allocated
// to a category. Hotel + Attractions + Food + Contingency never exceeds the
// requested total.
type BudgetAllocation struct {
	Hotel       float64 `json:"hotel"`
	Attractions float64 `json:"attractions"`
	Food        float64 `json:"food"`
	Contingency float64 `json:"contingency"`
}

// ForCategory returns the sub-budget of the given category.
func (a BudgetAllocation) ForCategory(c Category) float64 {
	switch c {
	case CategoryHotel:
		return a.Hotel
	case CategoryAttraction:
		return a.Attractions
	case CategoryFood:
		return a.Food
	}
	return 0
}

// Sum is the spendable total across categories, contingency excluded.
func (a BudgetAllocation) Sum() float64 {
	return a.Hotel + a.Attractions + a.Food
}

// DayPlan is one day of a bundle: the day's attraction and food pick plus the
// day's cost share. The hotel is bundle-level because the stay spans every day.
type DayPlan struct {
	Date       Date       `json:"date" swaggertype:"string" format:"date"`
	Attraction *Candidate `json:"attraction,omitempty"`
	Food       *Candidate `json:"food,omitempty"`
	Cost       float64    `json:"cost"`
	Weather    string     `json:"weather,omitempty"`
}

// ItineraryBundle is one complete, bookable itinerary option. Days covers
// every date of the trip in order and TotalCost never exceeds the requested
// budget. Signature identifies the exact candidate set for diversity checks.
type ItineraryBundle struct {
	Hotel           Candidate `json:"hotel"`
	Days            []DayPlan `json:"days"`
	TotalCost       float64   `json:"total_cost"`
	RemainingBudget float64   `json:"remaining_budget"`
	Signature       string    `json:"signature"`
}

// ItineraryOptionsResult carries exactly three pairwise-distinct bundles.
type ItineraryOptionsResult struct {
	Allocation BudgetAllocation  `json:"allocation"`
	Options    []ItineraryBundle `json:"options"`
}

type GenerateItineraryResponse struct {
	City       string            `json:"city"`
	Dates      DateRange         `json:"dates"`
	Allocation BudgetAllocation  `json:"allocation"`
	Options    []ItineraryBundle `json:"options"`
	Message    string            `json:"message,omitempty"`
}

// SavedItinerary matches the itineraries table. Version is the optimistic
// locking counter: updates must present the version they read.
type SavedItinerary struct {
	ID          uuid.UUID       `json:"id" swaggertype:"string" format:"uuid"`
	UserID      uuid.UUID       `json:"user_id" swaggertype:"string" format:"uuid"`
	City        string          `json:"city"`
	StartDate   Date            `json:"start_date" swaggertype:"string" format:"date"`
	EndDate     Date            `json:"end_date" swaggertype:"string" format:"date"`
	TotalBudget float64         `json:"total_budget"`
	Data        json.RawMessage `json:"itinerary_data" swaggertype:"object"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type SaveItineraryRequest struct {
	UserID      uuid.UUID       `json:"user_id" validate:"required" swaggertype:"string" format:"uuid"`
	City        string          `json:"city" validate:"required,max=100"`
	Dates       DateRange       `json:"dates" validate:"required"`
	TotalBudget float64         `json:"total_budget" validate:"required,gt=0"`
	Data        json.RawMessage `json:"itinerary_data" validate:"required" swaggertype:"object"`
}

type UpdateItineraryRequest struct {
	Version int             `json:"version" validate:"required,gt=0"`
	Data    json.RawMessage `json:"itinerary_data" validate:"required" swaggertype:"object"`
}

type PaginatedItinerariesResponse struct {
	Itineraries  []SavedItinerary `json:"itineraries"`
	TotalRecords int              `json:"total_records"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

// InviteStatus is the invite lifecycle state. Transitions only ever leave
// pending.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRejected InviteStatus = "rejected"
)

// Invite is a pending collaboration invite on a saved itinerary. One invite
// per itinerary and email.
type Invite struct {
	ID           uuid.UUID    `json:"id" swaggertype:"string" format:"uuid"`
	ItineraryID  uuid.UUID    `json:"itinerary_id" swaggertype:"string" format:"uuid"`
	InviteeEmail string       `json:"invitee_email"`
	Status       InviteStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	RespondedAt  *time.Time   `json:"responded_at,omitempty"`
}

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateInviteResponse returns the stored invite together with the signed
// token the invitee presents on respond.
type CreateInviteResponse struct {
	Invite Invite `json:"invite"`
	Token  string `json:"token"`
}

type RespondInviteRequest struct {
	Token  string `json:"token" validate:"required"`
	Action string `json:"action" validate:"required,oneof=accept reject"`
}
