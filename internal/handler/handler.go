// Package handler serves the API Gateway surface of the tracker: stats
// in three formats over GET, email delivery over POST and the CORS
// preflight.
package handler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
)

// StatsSource provides the current stats bundle.
type StatsSource interface {
	Stats(ctx context.Context) (models.StatsBundle, error)
}

// Mailer delivers the stats email. An empty recipient means the
// configured default.
type Mailer interface {
	Send(ctx context.Context, bundle models.StatsBundle, recipient string) error
}

// Handler routes API Gateway proxy events.
type Handler struct {
	stats  StatsSource
	mailer Mailer
}

// New builds a Handler.
func New(stats StatsSource, mailer Mailer) *Handler {
	return &Handler{stats: stats, mailer: mailer}
}

// Handle processes one API Gateway proxy event. Failures are reported in
// the response body; the returned error is always nil so API Gateway
// serves the CORS headers even on 500s.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch strings.ToUpper(req.HTTPMethod) {
	case "OPTIONS":
		log.Info().Msg("Handling OPTIONS request (CORS preflight)")
		return respond(200, ""), nil
	case "POST":
		return h.handleEmail(ctx, req), nil
	default:
		return h.handleStats(ctx, req), nil
	}
}

func (h *Handler) handleStats(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	log.Info().Msg("Handling GET request for stats")

	bundle, err := h.stats.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get stats")
		metrics.RecordError("handler", "stats")
		return errorResponse(err)
	}

	var payload any
	switch strings.ToLower(req.QueryStringParameters["format"]) {
	case "flat":
		payload = bundle.Flat
	case "nested":
		payload = bundle.Nested
	default:
		payload = bundle
	}

	body, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordError("handler", "marshal")
		return errorResponse(err)
	}
	return respond(200, string(body))
}

func (h *Handler) handleEmail(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	log.Info().Msg("Handling POST request for email")

	recipient := recipientFrom(req)

	bundle, err := h.stats.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get stats for email")
		metrics.RecordError("handler", "stats")
		return errorResponse(err)
	}

	if err := h.mailer.Send(ctx, bundle, recipient); err != nil {
		log.Error().Err(err).Msg("Failed to send email")
		return respond(500, `{"error": "Failed to send email"}`)
	}
	return respond(200, `{"message": "Email sent successfully"}`)
}

// recipientFrom extracts the recipient address from the request body,
// falling back to the query string. Empty means the configured default.
func recipientFrom(req events.APIGatewayProxyRequest) string {
	if req.Body != "" {
		var body struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			log.Warn().Msg("Failed to parse request body as JSON")
		} else if body.Email != "" {
			return body.Email
		}
	}
	return req.QueryStringParameters["email"]
}

func errorResponse(err error) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	return respond(500, string(body))
}

func respond(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		},
		Body: body,
	}
}
