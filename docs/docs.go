// Package docs Hearing Scheduler API.
//
// Documentation of the Hearing Scheduler API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/hearing-scheduler/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/priorities priorities scorePriorities
// Scores and ranks the posted cases.
// responses:
//   200: prioritiesResponse
//   400: errorResponse

// Ranked priority scores, highest first
// swagger:response prioritiesResponse
type prioritiesResponseWrapper struct {
	// in:body
	Body []models.PriorityScore
}

// swagger:route POST /api/v1/schedules schedules createSchedule
// Generates a hearing schedule for the posted or stored backlog and stores the run.
// responses:
//   201: scheduleRunResponse
//   400: errorResponse
//   422: errorResponse

// swagger:route GET /api/v1/schedules/{run_id} schedules scheduleByID
// Gets a stored schedule run by its id.
// responses:
//   200: scheduleRunResponse
//   404: errorResponse

// A stored scheduling run with its validation and metrics
// swagger:response scheduleRunResponse
type scheduleRunResponseWrapper struct {
	// in:body
	Body models.ScheduleRun
}

// swagger:route GET /api/v1/schedules schedules latestSchedules
// Lists the most recent schedule runs, newest first.
// responses:
//   200: scheduleRunsResponse

// swagger:response scheduleRunsResponse
type scheduleRunsResponseWrapper struct {
	// in:body
	Body []models.ScheduleRun
}

// swagger:route POST /api/v1/schedules/validate schedules validateSchedule
// Checks a schedule against the constraint set.
// responses:
//   200: validationResponse

// swagger:response validationResponse
type validationResponseWrapper struct {
	// in:body
	Body models.ValidationResult
}

// swagger:route POST /api/v1/metrics/compare metrics compareMetrics
// Compares two schedule evaluations.
// responses:
//   200: deltaResponse

// After minus before for every metric
// swagger:response deltaResponse
type deltaResponseWrapper struct {
	// in:body
	Body models.Delta
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
