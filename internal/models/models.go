package models

import (
	"time"

	"github.com/lehigh-university-libraries/bibmatch/internal/matching"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// DecisionRecord is a decision made through the HTTP API
type DecisionRecord struct {
	ID        string             `json:"id"`
	RecordID  string             `json:"record_id,omitempty"`
	System    vocab.System       `json:"system"`
	Library   vocab.Library      `json:"library"`
	Agent     vocab.Agent        `json:"agent"`
	Order     OrderSummary       `json:"order"`
	Decision  *matching.Decision `json:"decision,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// OrderSummary is the part of the derived order metadata worth showing
type OrderSummary struct {
	ControlNumber string          `json:"control_number,omitempty"`
	ISBNs         []string        `json:"isbns,omitempty"`
	CallNumber    string          `json:"call_number,omitempty"`
	CallType      vocab.CallType  `json:"call_type,omitempty"`
	CallLabel     vocab.CallLabel `json:"call_label,omitempty"`
	Audience      vocab.Audience  `json:"audience,omitempty"`
	OrderConflict bool            `json:"order_conflict,omitempty"`
	Candidates    int             `json:"candidates"`
}
