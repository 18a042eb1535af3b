package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ArtistStatus is a state of the artist approval workflow.
type ArtistStatus string

const (
	ArtistStatusRequestReceived     ArtistStatus = "request_received"
	ArtistStatusWaitingForDocuments ArtistStatus = "waiting_for_documents"
	ArtistStatusReceivedDocuments   ArtistStatus = "received_documents"
	ArtistStatusApproved            ArtistStatus = "approved"
	ArtistStatusRejected            ArtistStatus = "rejected"
)

var artistTransitions = map[ArtistStatus][]ArtistStatus{
	ArtistStatusRequestReceived:     {ArtistStatusWaitingForDocuments},
	ArtistStatusWaitingForDocuments: {ArtistStatusReceivedDocuments},
	ArtistStatusReceivedDocuments:   {ArtistStatusApproved, ArtistStatusRejected},
	ArtistStatusApproved:            {ArtistStatusRejected},
}

// Valid reports whether s is a known workflow state.
func (s ArtistStatus) Valid() bool {
	switch s {
	case ArtistStatusRequestReceived, ArtistStatusWaitingForDocuments, ArtistStatusReceivedDocuments,
		ArtistStatusApproved, ArtistStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow permits moving from s to next in one step.
func (s ArtistStatus) CanTransitionTo(next ArtistStatus) bool {
	for _, candidate := range artistTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Successors lists statuses reachable from s in one step.
func (s ArtistStatus) Successors() []ArtistStatus {
	out := make([]ArtistStatus, len(artistTransitions[s]))
	copy(out, artistTransitions[s])
	return out
}

// Reached reports whether s is at or past other in the onboarding sequence.
// Rejected counts as past every other state.
func (s ArtistStatus) Reached(other ArtistStatus) bool {
	return artistStatusRank[s] >= artistStatusRank[other]
}

var artistStatusRank = map[ArtistStatus]int{
	ArtistStatusRequestReceived:     0,
	ArtistStatusWaitingForDocuments: 1,
	ArtistStatusReceivedDocuments:   2,
	ArtistStatusApproved:            3,
	ArtistStatusRejected:            4,
}

// Humanize renders status for messages, e.g. "waiting for documents".
func (s ArtistStatus) Humanize() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Artist is the artist facing view of a user account.
type Artist struct {
	ID             int64
	Login          string
	Status         ArtistStatus
	CommissionRate *decimal.Decimal
}

// ArtistStatusChange describes a compare-and-swap artist status update.
type ArtistStatusChange struct {
	ArtistID int64
	Expected ArtistStatus
	Next     ArtistStatus
}
