// internal/workers/evaluation/index-rankings/handler_test.go
package indexrankings

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTransport struct {
	response   string
	statusCode int
	requests   []string
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.requests = append(m.requests, string(body))
	}
	status := m.statusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
		Body: io.NopCloser(strings.NewReader(m.response)),
	}, nil
}

func testClient(t *testing.T, transport *mockTransport) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return client
}

func sampleInput() *Input {
	return &Input{
		RunID:  "run-001",
		Cohort: "cohort-2025",
		Region: "Nakuru",
		Rankings: []models.RankedEntry{
			{
				ApplicationID: "APP-001",
				Region:        "Nakuru",
				Rank:          1,
				Tier:          "Tier 1: Ready-to-Scale",
				Origin:        models.OriginCurrent,
				Scores:        &models.ScoreBreakdown{Composite: 87.5, Grade: "Excellent"},
			},
			{
				ApplicationID: "APP-002",
				Region:        "Nakuru",
				Rank:          2,
				Origin:        models.OriginAlternate,
				Scores:        &models.ScoreBreakdown{Composite: 71.0, Grade: "Good"},
			},
		},
	}
}

func TestHandler_Execute_IndexesRankings(t *testing.T) {
	transport := &mockTransport{response: `{"errors":false,"items":[]}`}
	handler := NewHandler(LoadConfig(), testClient(t, transport), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.True(t, output.Indexed)
	assert.Equal(t, 2, output.Documents)
	assert.Equal(t, "evaluation-rankings", output.Index)

	require.Len(t, transport.requests, 1)
	body := transport.requests[0]
	assert.Equal(t, 4, strings.Count(body, "\n"), "two action lines and two document lines")
	assert.Contains(t, body, `"_id":"run-001:Nakuru:APP-001"`)
	assert.Contains(t, body, `"runId":"run-001"`)
	assert.Contains(t, body, `"cohort":"cohort-2025"`)
	assert.Contains(t, body, `"compositeScore":87.5`)
}

func TestHandler_Execute_EmptyRankings(t *testing.T) {
	transport := &mockTransport{response: `{"errors":false,"items":[]}`}
	handler := NewHandler(LoadConfig(), testClient(t, transport), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		RunID:  "run-001",
		Region: "Nakuru",
	})

	require.NoError(t, err)
	assert.True(t, output.Indexed)
	assert.Equal(t, 0, output.Documents)
	assert.Empty(t, transport.requests, "no bulk request for an empty region")
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	transport := &mockTransport{
		response: `{"errors":true,"items":[{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad field"}}},{"index":{"status":201}}]}`,
	}
	handler := NewHandler(LoadConfig(), testClient(t, transport), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrIndexRankingsFailed)
	assert.Contains(t, err.Error(), "1 documents rejected")
}

func TestHandler_Execute_ServerError(t *testing.T) {
	transport := &mockTransport{
		statusCode: http.StatusServiceUnavailable,
		response:   `{"error":"unavailable"}`,
	}
	handler := NewHandler(LoadConfig(), testClient(t, transport), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrIndexRankingsFailed)
}
