package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/chatlookup/cmd/mainconfig"
	"github.com/wolfman30/chatlookup/internal/app/bootstrap"
	appconfig "github.com/wolfman30/chatlookup/internal/config"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// chatHandler is satisfied by *chat.Handler.
type chatHandler interface {
	Handle(ctx context.Context, body []byte, requestID string) (int, any)
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	app, err := bootstrap.Build(ctx, cfg, bootstrap.Deps{Logger: logger, AWS: awsCfg})
	if err != nil {
		logger.Error("failed to build chat service", "error", err)
		os.Exit(1)
	}

	routes := chatRoutes(app.Clinic, app.Restaurant)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, routes, evt)
	})
}

func chatRoutes(clinicHandler, restaurantHandler chatHandler) map[string]chatHandler {
	return map[string]chatHandler{
		"/api/chat/clinic":     clinicHandler,
		"/api/chat_clinic":     clinicHandler,
		"/api/chat/restaurant": restaurantHandler,
		"/api/chat_restaurant": restaurantHandler,
	}
}

func handle(ctx context.Context, routes map[string]chatHandler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" {
		return jsonResponse(http.StatusOK, map[string]string{"status": "ok"}), nil
	}

	h, ok := routes[path]
	if !ok {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		// The chat handler answers undecodable bodies with its generic error.
		body = nil
	}
	status, payload := h.Handle(ctx, body, evt.RequestContext.RequestID)
	return jsonResponse(status, payload), nil
}

func jsonResponse(status int, payload any) events.APIGatewayV2HTTPResponse {
	data, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(data),
		Headers:    map[string]string{"content-type": "application/json"},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
