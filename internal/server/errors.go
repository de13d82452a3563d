package server

import (
	"errors"
	"net/http"

	"github.com/shortlisthq/shortlist/internal/workflow"
)

// HTTPStatus returns the appropriate HTTP status code for a workflow error.
func HTTPStatus(err error) int {
	var (
		jobNotFound    *workflow.ErrJobNotFound
		clientNotFound *workflow.ErrClientNotFound
		tierNotFound   *workflow.ErrTierNotFound
		validation     *workflow.ErrValidation
		batchTooLarge  *workflow.ErrBatchTooLarge
		credits        *workflow.ErrInsufficientCredits
		quota          *workflow.ErrInsufficientQuota
		transition     *workflow.ErrInvalidTransition
		duplicateEmail *workflow.ErrDuplicateEmail
		ingestion      *workflow.ErrIngestionFailed
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &batchTooLarge):
		return http.StatusBadRequest
	case errors.As(err, &credits):
		return http.StatusPaymentRequired
	case errors.As(err, &quota), errors.As(err, &transition), errors.As(err, &duplicateEmail):
		return http.StatusConflict
	case errors.As(err, &jobNotFound), errors.As(err, &clientNotFound), errors.As(err, &tierNotFound):
		return http.StatusNotFound
	case errors.As(err, &ingestion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
