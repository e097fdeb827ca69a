package aiadvisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"shopRadar/domain"
)

type AIAdvisorConfig struct {
	AIAdvisorURL    string
	AIAdvisorAPIKey string
}

type AIAdvisorRepository struct {
	aiAdvisorConfig AIAdvisorConfig
}

func NewAIAdvisorRepository(cfg AIAdvisorConfig) *AIAdvisorRepository {
	return &AIAdvisorRepository{
		cfg,
	}
}

// Suggest posts aggregate metrics to the advisor service. The caller owns
// the deadline through ctx; the advisor is best-effort and its answer is
// never required for a pass to finish.
func (r AIAdvisorRepository) Suggest(ctx context.Context, request domain.AIAdvisorRequest) (domain.AIAdvisorResponse, error) {
	url := r.aiAdvisorConfig.AIAdvisorURL + "/v1/suggestions"

	payloadByte, err := json.Marshal(request)
	if err != nil {
		return domain.AIAdvisorResponse{}, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return domain.AIAdvisorResponse{}, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+r.aiAdvisorConfig.AIAdvisorAPIKey)

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return domain.AIAdvisorResponse{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.AIAdvisorResponse{}, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.AIAdvisorResponse{}, fmt.Errorf("advisor service return negative response %v", res.StatusCode)
	}

	var advisorResponse domain.AIAdvisorResponse
	if err := json.Unmarshal(body, &advisorResponse); err != nil {
		return domain.AIAdvisorResponse{}, fmt.Errorf("failed to decode advisor response: %w", err)
	}

	return advisorResponse, nil
}
