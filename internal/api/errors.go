package api

import (
	"errors"
	"net/http"

	"trybud/internal/repository"
	"trybud/internal/service"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorStatuses is checked in order; the first sentinel found in the chain
// decides the response. Ledger rejections the user can act on come before
// the generic ErrLedgerRejected.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidParameters, http.StatusBadRequest},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrNotQuestOwner, http.StatusForbidden},
	{service.ErrQuestNotFound, http.StatusNotFound},
	{service.ErrQuestNotActive, http.StatusConflict},
	{service.ErrQuestAlreadyComplete, http.StatusConflict},
	{service.ErrQuestNotExpired, http.StatusConflict},
	{service.ErrOperationInFlight, http.StatusConflict},
	{service.ErrStakeTransferFailed, http.StatusPaymentRequired},
	{repository.ErrAlreadyLoggedToday, http.StatusConflict},
	{repository.ErrQuestExpired, http.StatusConflict},
	{service.ErrLedgerRejected, http.StatusBadGateway},
}

func errorStatus(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func respondError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	status, text := errorStatus(err)

	log := logger.Logger().With(fields...)
	if status >= http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
	} else {
		log.Info(msg, zap.Error(err))
	}

	c.JSON(status, gin.H{"error": text})
}
