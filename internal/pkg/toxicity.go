package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ModerationResult 毒性分类服务的返回
type ModerationResult struct {
	IsToxic bool    `json:"is_toxic"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
}

// ToxicityClient 调用外部分类服务 POST {text} -> {is_toxic,label,score}
type ToxicityClient struct {
	url  string
	http *http.Client
}

func NewToxicityClient(url string, timeout time.Duration) *ToxicityClient {
	return &ToxicityClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Classify 任何非 2xx 响应、网络错误或无法解析的响应都视为上游不可用
func (c *ToxicityClient) Classify(ctx context.Context, text string) (ModerationResult, error) {
	var res ModerationResult

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return res, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return res, fmt.Errorf("%w: toxicity service error: %d %s", ErrUpstreamUnavailable, resp.StatusCode, raw)
	}
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("%w: decode toxicity response: %v", ErrUpstreamUnavailable, err)
	}
	return res, nil
}
