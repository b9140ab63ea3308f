package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/models"
	"gdoc-latex/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct{}

func (stubFetcher) Name() string { return "stub" }

func (stubFetcher) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if src.DocID == "private" {
		return models.Document{}, &models.NotPubliclyReadableError{Source: src.Raw}
	}
	return models.Document{Source: src, Markup: "BEGIN_DOCUMENT<p>“Hi”</p>END_DOCUMENT", FinalURL: src.URL}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(stubFetcher{}, config.DefaultConvertConfig(), cloudRunTimeouts, nil)
	srv := httptest.NewServer(NewCloudRunHandler(svc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestCloudRunHandler_Convert(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/?url=https://docs.google.com/document/d/abc/edit")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body models.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "``Hi''\n", body.Content)
	assert.Equal(t, "latex", body.Format)
}

func TestCloudRunHandler_Errors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{name: "missing url", query: "/", status: http.StatusBadRequest},
		{name: "private", query: "/?url=https://docs.google.com/document/d/private/edit", status: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestCloudRunHandler_Methods(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "GET,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))

	resp, err = http.Post(srv.URL+"/", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
