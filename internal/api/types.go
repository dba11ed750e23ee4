// Package api provides HTTP and WebSocket clients for the Blastline backend.
// Types mirror the backend wire format without importing backend packages.
package api

import "encoding/json"

// User is the authenticated account profile returned by GET /user and by
// the login/register endpoints.
type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	Business            *Business `json:"business,omitempty"`
}

// Business is the optional business profile nested in a User.
type Business struct {
	Name string `json:"name"`
}

// AuthResponse is returned by POST /login and POST /register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginRequest is the POST /login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /register payload.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	BusinessName         string `json:"business_name"`
}

// BusinessInfo is the onboarding business-details payload.
type BusinessInfo struct {
	Category string `json:"category"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "Draft"
	CampaignScheduled CampaignStatus = "Scheduled"
	CampaignSent      CampaignStatus = "Sent"
)

// Campaign is a bulk-message campaign.
type Campaign struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Status  CampaignStatus `json:"status"`
	Sent    int            `json:"sent"`
	Total   int            `json:"total"`
	Date    string         `json:"date"`
	Message string         `json:"message,omitempty"`
	Image   string         `json:"image,omitempty"`
}

// ContactStatus marks whether a contact's phone number validated.
type ContactStatus string

const (
	ContactValid   ContactStatus = "valid"
	ContactInvalid ContactStatus = "invalid"
)

// Contact is an audience entry.
type Contact struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Phone  string        `json:"phone"`
	Tags   []string      `json:"tags"`
	Status ContactStatus `json:"status"`
}

// TemplateStatus is the provider review state of a message template.
type TemplateStatus string

const (
	TemplateApproved TemplateStatus = "approved"
	TemplatePending  TemplateStatus = "pending"
	TemplateRejected TemplateStatus = "rejected"
)

// Template is a reusable message template synced from the provider.
type Template struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Language string         `json:"language"`
	Status   TemplateStatus `json:"status"`
	Body     string         `json:"body"`
}

// VolumePoint is one day of the dashboard volume series.
type VolumePoint struct {
	Day       string `json:"day"`
	Sent      int    `json:"sent"`
	Delivered int    `json:"delivered"`
}

// Metrics is the GET /dashboard/metrics response.
type Metrics struct {
	MessagesSent   int           `json:"messages_sent"`
	DeliveryRate   float64       `json:"delivery_rate"`
	ActiveContacts int           `json:"active_contacts"`
	Scheduled      int           `json:"scheduled"`
	Volume         []VolumePoint `json:"volume"`
}

// MetaSettings holds the WhatsApp Cloud API provider credentials.
type MetaSettings struct {
	PhoneID     string `json:"phone_id"`
	WABAID      string `json:"waba_id"`
	AccessToken string `json:"access_token"`
	Status      string `json:"status,omitempty"`
}

// --- WebSocket wire format ---

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventCampaignProgress EventType = "campaign_progress"
	EventTemplateStatus   EventType = "template_status"
	EventChannelStatus    EventType = "channel_status"
	EventError            EventType = "error"
)

// WSEvent is the envelope for all WebSocket events.
type WSEvent struct {
	Type    EventType       `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// CampaignProgressPayload reports delivery progress for a running campaign.
type CampaignProgressPayload struct {
	CampaignID string         `json:"campaign_id"`
	Sent       int            `json:"sent"`
	Total      int            `json:"total"`
	Status     CampaignStatus `json:"status"`
}

// TemplateStatusPayload reports a provider review decision.
type TemplateStatusPayload struct {
	TemplateID string         `json:"template_id"`
	Status     TemplateStatus `json:"status"`
}

// ChannelStatusPayload reports WhatsApp channel health.
type ChannelStatusPayload struct {
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
}
