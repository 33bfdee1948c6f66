package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Renderer fetches the fully rendered HTML of a page. The real work happens
// in an external headless-browser service; this is a pass-through client.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

type httpRenderer struct {
	endpoint string
	http     *http.Client
}

// NewRendererFromEnv builds a renderer client from RENDERER_URL, or nil when
// no renderer is configured.
func NewRendererFromEnv() Renderer {
	endpoint := strings.TrimSpace(os.Getenv("RENDERER_URL"))
	if endpoint == "" {
		return nil
	}
	return &httpRenderer{endpoint: endpoint, http: &http.Client{Timeout: 60 * time.Second}}
}

func (r *httpRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	payload := map[string]string{"url": pageURL}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("renderer http status: %s", resp.Status)
	}
	var out struct {
		HTML string `json:"html"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.HTML == "" {
		return "", fmt.Errorf("renderer returned no html for %s", pageURL)
	}
	return out.HTML, nil
}
