package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/batch"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

type BatchHandler interface {
	SubmitPayrollBatch(w http.ResponseWriter, r *http.Request)
	SubmitAdvanceBatch(w http.ResponseWriter, r *http.Request)
	SubmitAdvanceActionBatch(w http.ResponseWriter, r *http.Request)
	GetJob(w http.ResponseWriter, r *http.Request)
	ListJobs(w http.ResponseWriter, r *http.Request)

	// SSE
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	StreamJob(w http.ResponseWriter, r *http.Request)
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type batchHandlerImpl struct {
	batchService batch.BatchService
	jwtService   jwt.Service
	keepalive    time.Duration
}

func NewBatchHandler(batchService batch.BatchService, jwtService jwt.Service) BatchHandler {
	return &batchHandlerImpl{
		batchService: batchService,
		jwtService:   jwtService,
		keepalive:    30 * time.Second,
	}
}

func (h *batchHandlerImpl) SubmitPayrollBatch(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req batch.SubmitPayrollBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.batchService.SubmitPayrollBatch(r.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Payroll batch submitted", result)
}

func (h *batchHandlerImpl) SubmitAdvanceBatch(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req batch.SubmitAdvanceBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.batchService.SubmitAdvanceBatch(r.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Advance batch submitted", result)
}

func (h *batchHandlerImpl) SubmitAdvanceActionBatch(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req batch.SubmitAdvanceActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.batchService.SubmitAdvanceActionBatch(r.Context(), caller.OrganizationID, caller.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Advance action batch submitted", result)
}

func (h *batchHandlerImpl) GetJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.batchService.GetJob(r.Context(), caller.OrganizationID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *batchHandlerImpl) ListJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	page := getIntQueryParam(r, "page", 1)
	pageSize := getIntQueryParam(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.batchService.ListJobs(r.Context(), caller.OrganizationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	total := len(result)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	response.SuccessWithMeta(w, result[start:end], &response.Meta{
		Page:       page,
		Limit:      pageSize,
		TotalItems: int64(total),
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

// GetSSEToken generates a short-lived token for job event streams
func (h *batchHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(caller)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// StreamJob streams progress events of one batch job until it finishes.
func (h *batchHandlerImpl) StreamJob(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	caller, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	jobID := chi.URLParam(r, "id")

	// Subscribe before reading the snapshot so the finish event cannot slip between them.
	events, cleanup, err := h.batchService.Subscribe(r.Context(), caller.OrganizationID, jobID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	snapshot, err := h.batchService.GetJob(r.Context(), caller.OrganizationID, jobID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if batch.JobStatus(snapshot.Status).IsFinished() {
		writeEvent(w, "finished", snapshot)
		flusher.Flush()
		return
	}
	writeEvent(w, "snapshot", snapshot)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()
			if isFinished(event) {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func isFinished(event sse.Event) bool {
	if job, ok := event.Data.(batch.JobResponse); ok {
		return batch.JobStatus(job.Status).IsFinished()
	}
	return false
}

func writeEvent(w http.ResponseWriter, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
