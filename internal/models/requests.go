package models

import "time"

// RequestStatus is the lifecycle state of a verification or withdrawal
// request. Requests leave "pending" exactly once.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// ValidVerificationOutcome reports whether s can close a verification request.
func ValidVerificationOutcome(s RequestStatus) bool {
	return s == RequestApproved || s == RequestRejected
}

// ValidWithdrawalOutcome reports whether s can close a withdrawal request.
func ValidWithdrawalOutcome(s RequestStatus) bool {
	return s == RequestCompleted || s == RequestRejected
}

// Evidence holds the blob keys of the three verification images.
type Evidence struct {
	IDFront string `json:"idFront"`
	IDBack  string `json:"idBack"`
	Selfie  string `json:"selfie"`
}

type VerificationRequest struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	UserName     string        `json:"userName"`
	Category     string        `json:"category"`
	Reason       string        `json:"reason"`
	Evidence     Evidence      `json:"documents"`
	Status       RequestStatus `json:"status"`
	RejectReason string        `json:"rejectReason,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

type WithdrawalRequest struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Amount    int64         `json:"amount"`
	Method    string        `json:"method"`
	Status    RequestStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
