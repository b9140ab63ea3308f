package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/fetcher"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"
	"gdoc-latex/internal/service"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

const (
	// safetyMargin is kept free before the invocation deadline
	safetyMargin   = 3 * time.Second
	maxSoftTimeout = 70 * time.Second
	minSoftTimeout = time.Second
)

// LambdaHandler handles AWS Lambda events
type LambdaHandler struct {
	service *service.Service
	apiKey  string
	logger  logging.Logger
}

func NewLambdaHandler(svc *service.Service, apiKey string, logger logging.Logger) *LambdaHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LambdaHandler{service: svc, apiKey: apiKey, logger: logger}
}

// Handler is the main Lambda handler function
func (h *LambdaHandler) Handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if event.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent, Headers: service.CORSHeaders}, nil
	}

	h.logger.Debug("request received", "method", event.HTTPMethod, "path", event.Path)

	if h.apiKey == "" {
		h.logger.Error("GDOC_API_KEY environment variable not set")
		return h.respond(service.Response{
			Status: http.StatusInternalServerError,
			Body:   models.ErrorResponse{Error: "Server misconfiguration"},
		}), nil
	}

	apiKey := requestAPIKey(event)
	if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.apiKey)) != 1 {
		return h.respond(service.Response{
			Status: http.StatusUnauthorized,
			Body:   models.ErrorResponse{Error: "Invalid or missing API key"},
		}), nil
	}

	params := event.QueryStringParameters
	resp := h.service.Handle(ctx, service.Query{
		URL:       params["url"],
		Format:    params["format"],
		TimeoutMs: params["timeout"],
	})
	return h.respond(resp), nil
}

// requestAPIKey reads the key from the headers, falling back to ?key=
func requestAPIKey(event events.APIGatewayProxyRequest) string {
	for _, name := range []string{"x-api-key", "X-Api-Key", "X-API-Key"} {
		if key := event.Headers[name]; key != "" {
			return key
		}
	}
	return event.QueryStringParameters["key"]
}

func (h *LambdaHandler) respond(resp service.Response) events.APIGatewayProxyResponse {
	body, err := json.Marshal(resp.Body)
	if err != nil {
		h.logger.Error("failed to serialize response", "error", err)
		body, _ = json.Marshal(models.ErrorResponse{Error: "Failed to serialize response"})
		resp.Status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    service.CORSHeaders,
		Body:       string(body),
	}
}

// softTimeouts derives the per-request budget from the invocation deadline
func softTimeouts(ctx context.Context) service.TimeoutPolicy {
	remaining := 90 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		remaining = time.Until(deadline)
	}

	soft := remaining - safetyMargin
	if soft > maxSoftTimeout {
		soft = maxSoftTimeout
	}
	if soft < minSoftTimeout {
		soft = minSoftTimeout
	}
	return service.TimeoutPolicy{Default: soft, Min: minSoftTimeout, Max: soft}
}

func main() {
	logCfg := config.DefaultLogConfig()
	provider, err := logging.NewProvider(logging.Config{Level: logCfg.Level, Format: "json"})
	if err != nil {
		panic(err)
	}
	logger := provider.GetLogger("lambda")

	fetchCfg := config.DefaultFetchConfig()
	convertCfg := config.DefaultConvertConfig()
	apiKey := os.Getenv("GDOC_API_KEY")

	chain, err := fetcher.NewDefault(context.Background(), fetchCfg, provider.GetLogger("fetcher"))
	if err != nil {
		logger.Error("failed to set up fetchers", "error", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		svc := service.New(chain, convertCfg, softTimeouts(ctx), provider.GetLogger("service"))
		return NewLambdaHandler(svc, apiKey, logger).Handler(ctx, event)
	})
}
