package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// defaultClientTimeout mirrors the teacher's optional-analysis-service
// client default of 60s, generous for a small JSON feature payload.
const defaultClientTimeout = 60 * time.Second

// HTTPClassifier calls an external ML genre-classification service over
// HTTP, following the same client shape as the teacher's analysis
// service client: a thin wrapper around *http.Client with a health check
// and a single classify call.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClassifier builds a classifier pointed at baseURL with the
// default timeout.
func NewHTTPClassifier(baseURL string) *HTTPClassifier {
	return NewHTTPClassifierWithTimeout(baseURL, defaultClientTimeout)
}

// NewHTTPClassifierWithTimeout builds a classifier with a custom timeout.
func NewHTTPClassifierWithTimeout(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	SpectralCentroid float64 `json:"spectral_centroid"`
	SpectralRolloff  float64 `json:"spectral_rolloff"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	CrestDB          float64 `json:"crest_db"`
	TempoBPM         float64 `json:"tempo_bpm"`
}

type classifyResponse struct {
	Genre      string  `json:"genre"`
	Confidence float64 `json:"confidence"`
}

// IsAvailable performs a health check against the service's /health
// endpoint, returning false on any error rather than propagating it — a
// classifier that cannot be reached simply isn't used.
func (c *HTTPClassifier) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Classify posts the profile's feature summary to the remote service and
// parses its genre/confidence verdict.
func (c *HTTPClassifier) Classify(ctx context.Context, p Profile) (Genre, float64, error) {
	body, err := json.Marshal(classifyRequest{
		SpectralCentroid: p.SpectralCentroid,
		SpectralRolloff:  p.SpectralRolloff,
		ZeroCrossingRate: p.ZeroCrossingRate,
		CrestDB:          p.CrestDB,
		TempoBPM:         p.TempoBPM,
	})
	if err != nil {
		return "", 0, fmt.Errorf("encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/classify", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("call classify service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("classify service returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode classify response: %w", err)
	}
	return Genre(out.Genre), out.Confidence, nil
}
