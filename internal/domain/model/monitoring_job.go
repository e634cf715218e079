// Package model defines the core data types and structures used throughout the climatewatch system.
package model

import (
	"errors"
	"strings"
	"time"
)

// JobStatus represents the lifecycle status of a monitoring job as reported
// by the processing agent. The persisted copy is a best-effort mirror, not
// authoritative; the agent's status endpoint is the source of truth.
type JobStatus string

const (
	// JobStatusAwaitingPayment indicates the job exists but its escrow has not been funded.
	JobStatusAwaitingPayment JobStatus = "awaiting_payment"
	// JobStatusRunning indicates the agent is processing the job.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the agent finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the agent gave up on the job.
	JobStatusFailed JobStatus = "failed"
)

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusAwaitingPayment || s == JobStatusRunning ||
		s == JobStatusCompleted || s == JobStatusFailed
}

// Terminal returns true when the agent will never change this status again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// PaymentStatus mirrors the agent's view of the escrow payment.
type PaymentStatus string

const (
	// PaymentStatusPending indicates payment has not been observed on chain.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusCompleted indicates payment has been confirmed.
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusUnknown indicates the agent could not determine payment state.
	PaymentStatusUnknown PaymentStatus = "unknown"
	// PaymentStatusError indicates payment verification failed.
	PaymentStatusError PaymentStatus = "error"
)

// Amount is a single asset amount in the smallest on-chain unit.
// The wire format carries amounts as decimal strings.
type Amount struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// PaymentBundle is the immutable set of escrow metadata returned at job
// creation. Every field must be echoed back verbatim when submitting
// payment; the orchestrator never interprets or rewrites them.
type PaymentBundle struct {
	BlockchainIdentifier      string   `json:"blockchain_identifier"        db:"blockchain_identifier"`
	AgentIdentifier           string   `json:"agent_identifier"             db:"agent_identifier"`
	SellerVKey                string   `json:"seller_vkey"                  db:"seller_vkey"`
	Amounts                   []Amount `json:"amounts"                      db:"amounts"`
	PayByTime                 string   `json:"pay_by_time"                  db:"pay_by_time"`
	SubmitResultTime          string   `json:"submit_result_time"           db:"submit_result_time"`
	UnlockTime                string   `json:"unlock_time"                  db:"unlock_time"`
	ExternalDisputeUnlockTime string   `json:"external_dispute_unlock_time" db:"external_dispute_unlock_time"`
	InputHash                 string   `json:"input_hash"                   db:"input_hash"`
}

// MonitoringJob is one monitoring request tracked end-to-end from creation
// through payment to result delivery.
type MonitoringJob struct {
	ID                  string `json:"id"                   db:"id"`
	PurchaserIdentifier string `json:"purchaser_identifier" db:"purchaser_identifier"`
	JobID               string `json:"job_id"               db:"job_id"`
	Location            string `json:"location"             db:"location"`
	RequestText         string `json:"request_text"         db:"request_text"`
	// AmountPaid transitions false to true exactly once and is never reversed.
	AmountPaid bool      `json:"amount_paid" db:"amount_paid"`
	Status     JobStatus `json:"status"      db:"status"`

	PaymentBundle

	CreatedAt time.Time  `json:"created_at"        db:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

// CreateMonitoringJobRequest carries the fields needed to persist a new job record.
type CreateMonitoringJobRequest struct {
	PurchaserIdentifier string        `json:"purchaser_identifier"`
	JobID               string        `json:"job_id"`
	Location            string        `json:"location"`
	RequestText         string        `json:"request_text"`
	Status              JobStatus     `json:"status,omitempty"`
	Bundle              PaymentBundle `json:"bundle"`
}

// Validate validates the CreateMonitoringJobRequest fields.
func (r *CreateMonitoringJobRequest) Validate() error {
	if strings.TrimSpace(r.PurchaserIdentifier) == "" {
		return errors.New("purchaser identifier is required")
	}
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job id is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return errors.New("location is required")
	}
	if strings.TrimSpace(r.RequestText) == "" {
		return errors.New("request text is required")
	}
	if r.Status != "" && !r.Status.Valid() {
		return errors.New("invalid job status")
	}
	return nil
}

// PatchPaymentParams updates the payment fields of a persisted record.
type PatchPaymentParams struct {
	JobID      string
	AmountPaid bool
	PaidAt     time.Time
}
