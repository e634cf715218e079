package model

// Wire types exchanged with the remote processing agent and the payment
// service. Field names follow the agent's JSON contract, which mixes
// camelCase and snake_case; they are preserved as-is because the payment
// service matches on exact keys.

// StartJobInput is the free-text monitoring request wrapped by StartJobRequest.
type StartJobInput struct {
	Text string `json:"text"`
}

// StartJobRequest is the body posted to the agent's start_job endpoint.
type StartJobRequest struct {
	IdentifierFromPurchaser string        `json:"identifier_from_purchaser"`
	InputData               StartJobInput `json:"input_data"`
}

// StartJobResponse is the agent's reply to start_job. It assigns the job id
// and hands back the full payment metadata bundle needed to fund the escrow.
type StartJobResponse struct {
	Status                    string   `json:"status"`
	JobID                     string   `json:"job_id"`
	BlockchainIdentifier      string   `json:"blockchainIdentifier"`
	PayByTime                 string   `json:"payByTime"`
	SubmitResultTime          string   `json:"submitResultTime"`
	UnlockTime                string   `json:"unlockTime"`
	ExternalDisputeUnlockTime string   `json:"externalDisputeUnlockTime"`
	AgentIdentifier           string   `json:"agentIdentifier"`
	SellerVKey                string   `json:"sellerVKey"`
	IdentifierFromPurchaser   string   `json:"identifierFromPurchaser"`
	Amounts                   []Amount `json:"amounts"`
	InputHash                 string   `json:"input_hash"`
}

// Bundle collects the escrow metadata from a start_job response.
func (r *StartJobResponse) Bundle() PaymentBundle {
	return PaymentBundle{
		BlockchainIdentifier:      r.BlockchainIdentifier,
		AgentIdentifier:           r.AgentIdentifier,
		SellerVKey:                r.SellerVKey,
		Amounts:                   r.Amounts,
		PayByTime:                 r.PayByTime,
		SubmitResultTime:          r.SubmitResultTime,
		UnlockTime:                r.UnlockTime,
		ExternalDisputeUnlockTime: r.ExternalDisputeUnlockTime,
		InputHash:                 r.InputHash,
	}
}

// PaymentRequest is the body posted to the payment service. All metadata
// fields are echoed verbatim from the stored bundle.
type PaymentRequest struct {
	IdentifierFromPurchaser   string `json:"identifierFromPurchaser"`
	Network                   string `json:"network"`
	SellerVkey                string `json:"sellerVkey"`
	BlockchainIdentifier      string `json:"blockchainIdentifier"`
	PayByTime                 string `json:"payByTime"`
	SubmitResultTime          string `json:"submitResultTime"`
	UnlockTime                string `json:"unlockTime"`
	ExternalDisputeUnlockTime string `json:"externalDisputeUnlockTime"`
	AgentIdentifier           string `json:"agentIdentifier"`
	InputHash                 string `json:"inputHash"`
}

// NewPaymentRequest assembles a payment request from a stored bundle.
func NewPaymentRequest(identifier, network string, bundle PaymentBundle) PaymentRequest {
	return PaymentRequest{
		IdentifierFromPurchaser:   identifier,
		Network:                   network,
		SellerVkey:                bundle.SellerVKey,
		BlockchainIdentifier:      bundle.BlockchainIdentifier,
		PayByTime:                 bundle.PayByTime,
		SubmitResultTime:          bundle.SubmitResultTime,
		UnlockTime:                bundle.UnlockTime,
		ExternalDisputeUnlockTime: bundle.ExternalDisputeUnlockTime,
		AgentIdentifier:           bundle.AgentIdentifier,
		InputHash:                 bundle.InputHash,
	}
}

// JobStatusResponse is the agent's reply to a status poll. Result is only
// present once Status is completed.
type JobStatusResponse struct {
	JobID         string        `json:"job_id"`
	Status        JobStatus     `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Result        string        `json:"result,omitempty"`
}
