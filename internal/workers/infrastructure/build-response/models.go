// internal/workers/infrastructure/build-response/models.go
package buildresponse

import "roommate-finder/internal/models"

type Input struct {
	Data    interface{} `json:"data"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

type Output struct {
	Response models.Response `json:"response"`
}
