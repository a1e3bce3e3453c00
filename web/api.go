package web

import (
	"docql/config"
	"docql/parser"
	"docql/query"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"io"
	"net/http"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const RequestIdHeader = "X-Request-Id"

type ParseRequest struct {
	Query      string            `json:"query"`
	Parameters parser.Parameters `json:"parameters"`
}

type ParseResponse struct {
	RequestId string              `json:"request-id"`
	Command   *query.Command      `json:"command"`
	Mongo     jsoniter.RawMessage `json:"mongo"`
}

type ErrorResponse struct {
	RequestId string `json:"request-id,omitempty"`
	Error     string `json:"error"`
	Details   error  `json:"details"`
}

func NewErrorResponse(requestId string, message string, err error) ErrorResponse {
	return ErrorResponse{
		RequestId: requestId,
		Error:     message,
		Details:   err,
	}
}

func StartServer(cfg *config.Config) {
	r := initRouter(cfg)
	sigolo.Infof("Start server without TLS support on port %s", cfg.Port)
	err := http.ListenAndServe(":"+cfg.Port, r)
	sigolo.FatalCheck(err)
}

func StartServerTls(cfg *config.Config) {
	r := initRouter(cfg)
	sigolo.Infof("Start server with TLS support on port %s", cfg.Port)
	err := http.ListenAndServeTLS(":"+cfg.Port, cfg.CertFile, cfg.KeyFile, r)
	sigolo.FatalCheck(err)
}

func initRouter(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
		writeJson(writer, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/parse", func(writer http.ResponseWriter, request *http.Request) {
		handleParse(writer, request, cfg.MaxQueryLogLength)
	}).Methods(http.MethodPost)
	return r
}

func handleParse(writer http.ResponseWriter, request *http.Request, maxQueryLogLength int) {
	requestId := uuid.NewString()
	writer.Header().Set("Access-Control-Allow-Origin", "*")
	writer.Header().Set(RequestIdHeader, requestId)

	requestBytes, err := io.ReadAll(request.Body)
	if err != nil {
		sigolo.Errorf("[%s] Error reading HTTP body of request to '/parse': %+v", requestId, err)
		writeJson(writer, http.StatusInternalServerError, NewErrorResponse(requestId, "Error reading HTTP body.", nil))
		return
	}

	var parseRequest ParseRequest
	err = json.Unmarshal(requestBytes, &parseRequest)
	if err != nil {
		sigolo.Errorf("[%s] Error decoding request body: %+v", requestId, err)
		writeJson(writer, http.StatusBadRequest, NewErrorResponse(requestId, fmt.Sprintf("Invalid request body: %s", err.Error()), nil))
		return
	}

	sigolo.Infof("[%s] Query:\n%s", requestId, truncateQuery(parseRequest.Query, maxQueryLogLength))

	// A parser is not safe for concurrent use, so each request gets its own.
	command, err := parser.NewParser().Parse(parseRequest.Query, parseRequest.Parameters)
	if err != nil {
		sigolo.Errorf("[%s] Error parsing query: %+v", requestId, err)
		writeJson(writer, http.StatusBadRequest, NewErrorResponse(requestId, fmt.Sprintf("Error parsing query: %s", err.Error()), err))
		return
	}

	extendedJson, err := command.ExtendedJSON()
	if err != nil {
		sigolo.Errorf("[%s] Error rendering command: %+v", requestId, err)
		writeJson(writer, http.StatusInternalServerError, NewErrorResponse(requestId, fmt.Sprintf("Error rendering command: %s", err.Error()), nil))
		return
	}

	sigolo.Debugf("[%s] Parsed %s command on collection '%s'", requestId, command.GetType().String(), command.GetCollection())

	writeJson(writer, http.StatusOK, ParseResponse{
		RequestId: requestId,
		Command:   command,
		Mongo:     jsoniter.RawMessage(extendedJson),
	})
}

func writeJson(writer http.ResponseWriter, status int, value any) {
	responseBytes, err := json.Marshal(value)
	if err != nil {
		sigolo.Errorf("Error marshalling response object: %+v", errors.Wrap(err, "Error marshalling response"))
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	_, err = writer.Write(responseBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}

// truncateQuery shortens long queries for the log output.
func truncateQuery(queryString string, maxLength int) string {
	queryRunes := []rune(queryString)
	if maxLength <= 0 || len(queryRunes) <= maxLength {
		return queryString
	}
	return string(queryRunes[:maxLength]) + "... [truncated]"
}
