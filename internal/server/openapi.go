package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/bowlingdle/internal/bowling"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VerifyResponse documents the body of a successful verify call.
type VerifyResponse struct {
	Correct      bool   `json:"correct"`
	Answer       string `json:"answer" enum:"strike,not_strike"`
	StandingPins []int  `json:"standingPins"`
}

// healthzResponse mirrors the body of /healthz for documentation.
type healthzResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bowlingdle API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Daily strike prediction challenge provider.")

	// GET /api/challenge/today
	getToday, _ := r.NewOperationContext(http.MethodGet, "/api/challenge/today")
	getToday.SetSummary("Today's challenge")
	getToday.SetDescription("Returns today's delivery and its timing. The answer is never included.")
	getToday.AddRespStructure(bowling.Challenge{}, openapi.WithHTTPStatus(http.StatusOK))
	getToday.AddRespStructure(NoChallengeResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getToday)

	// POST /api/challenge/verify
	postVerify, _ := r.NewOperationContext(http.MethodPost, "/api/challenge/verify")
	postVerify.SetSummary("Verify guess")
	postVerify.SetDescription("Judges a strike guess for a date and reveals the answer and standing pins.")
	postVerify.AddReqStructure(VerifyRequest{})
	postVerify.AddRespStructure(VerifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postVerify)

	// GET /api/health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/api/health")
	getHealth.SetSummary("Liveness")
	getHealth.AddRespStructure(StatusResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealth)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(healthzResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthzResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
