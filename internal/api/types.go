package api

import (
	"github.com/rgehrsitz/finplan/internal/advice"
)

// Response wraps every successful calculation result
type Response struct {
	Data   any              `json:"data"`
	Advice *advice.Envelope `json:"advice,omitempty"`
	Meta   Meta             `json:"meta"`
}

// Meta carries request bookkeeping
type Meta struct {
	RequestID     string `json:"requestId"`
	RulesVersion  string `json:"rulesVersion,omitempty"`
	EngineVersion string `json:"engineVersion"`
	DurationMs    int64  `json:"durationMs"`
	AdviceError   string `json:"adviceError,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Error codes
const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeDomainError     = "DOMAIN_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)
