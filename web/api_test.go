package web

import (
	"docql/config"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

type testParseResponse struct {
	RequestId string              `json:"request-id"`
	Command   jsoniter.RawMessage `json:"command"`
	Mongo     jsoniter.RawMessage `json:"mongo"`
}

type testErrorResponse struct {
	RequestId string         `json:"request-id"`
	Error     string         `json:"error"`
	Details   map[string]any `json:"details"`
}

func serve(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := initRouter(config.Default())
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealth(t *testing.T) {
	recorder := serve(t, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestParse(t *testing.T) {
	recorder := serve(t, http.MethodPost, "/parse", `{
		"query": "FIND name User WHERE age > :age SORT name asc LIMIT 10",
		"parameters": {"named": {"age": 21}}
	}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var response testParseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotEmpty(t, response.RequestId)
	require.Equal(t, response.RequestId, recorder.Header().Get(RequestIdHeader))
	require.JSONEq(t, `{
		"type": "find",
		"collection": "User",
		"fields": ["name"],
		"where": [{"field": "age", "operator": ">", "value": 21}],
		"sort": [{"field": "name", "direction": "asc"}],
		"limit": 10
	}`, string(response.Command))
	require.JSONEq(t, `{
		"type": "find",
		"collection": "User",
		"filter": {"age": {"$gt": 21}},
		"projection": {"name": 1},
		"sort": {"name": 1},
		"limit": 10
	}`, string(response.Mongo))
}

func TestParsePositionalParameters(t *testing.T) {
	recorder := serve(t, http.MethodPost, "/parse", `{
		"query": "UPDATE User SET name = ?, INC visits = ? WHERE _id = ?",
		"parameters": {"positional": ["Jane", 1, 7]}
	}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response testParseResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.JSONEq(t, `{
		"type": "update",
		"collection": "User",
		"filter": {"_id": 7},
		"update": {"$set": {"name": "Jane"}, "$inc": {"visits": 1}}
	}`, string(response.Mongo))
}

func TestParseSyntaxError(t *testing.T) {
	recorder := serve(t, http.MethodPost, "/parse", `{"query": "FIND *"}`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response testErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, "Error parsing query: Expected identifier, got end of string.", response.Error)
	require.Equal(t, true, response.Details["end-of-string"])
	require.Equal(t, "identifier", response.Details["expected"])
	require.Equal(t, recorder.Header().Get(RequestIdHeader), response.RequestId)
}

func TestParsePlaceholderConflict(t *testing.T) {
	recorder := serve(t, http.MethodPost, "/parse", `{"query": "FIND * User WHERE a = ? AND b = :b"}`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response testErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, "Error parsing query: Cannot mix named and positional placeholders in one query.", response.Error)
}

func TestParseInvalidBody(t *testing.T) {
	recorder := serve(t, http.MethodPost, "/parse", `{"query": `)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response testErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.True(t, strings.HasPrefix(response.Error, "Invalid request body"))
	require.Nil(t, response.Details)
}

func TestParseWrongMethod(t *testing.T) {
	recorder := serve(t, http.MethodGet, "/parse", "")

	require.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestTruncateQuery(t *testing.T) {
	require.Equal(t, "FIND * User", truncateQuery("FIND * User", 100))
	require.Equal(t, "FIND... [truncated]", truncateQuery("FIND * User", 4))
	require.Equal(t, "äö... [truncated]", truncateQuery("äöü", 2))
	require.Equal(t, "FIND * User", truncateQuery("FIND * User", 0))
}
