package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/ATenderholt/rainbow-xform/internal/service"
)

const maxEventSize = 1 << 20

type Dispatcher interface {
	Dispatch(ctx context.Context, batch domain.Batch) (service.Summary, error)
}

// NotificationHandler accepts S3 event notifications delivered by webhook.
// Deliveries are handled one at a time so conversions never overlap.
type NotificationHandler struct {
	dispatcher Dispatcher
	mu         *sync.Mutex
}

func NewNotificationHandler(dispatcher Dispatcher) NotificationHandler {
	return NotificationHandler{
		dispatcher: dispatcher,
		mu:         &sync.Mutex{},
	}
}

func (h NotificationHandler) Receive(response http.ResponseWriter, request *http.Request) {
	var event domain.LambdaEvent
	err := json.NewDecoder(http.MaxBytesReader(response, request.Body, maxEventSize)).Decode(&event)
	if err != nil {
		logger.Errorf("Unable to decode notification: %v", err)
		http.Error(response, "unable to decode notification: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	summary, err := h.dispatcher.Dispatch(request.Context(), event.Batch())
	if err != nil {
		http.Error(response, err.Error(), statusFor(err))
		return
	}

	logger.Infof("Handled notification with %d records, converted %d", summary.Received, summary.Converted)
	response.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	var malformed domain.MalformedRecordError
	var process domain.ConversionProcessError
	var timeout domain.TimeoutError

	switch {
	case errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &process):
		return http.StatusBadGateway
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}
