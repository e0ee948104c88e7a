package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("deepl key not configured")
	ErrUpstream      = errors.New("deepl request failed")
)

const deeplEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepLAPI 封装对 DeepL 免费接口的调用。
type DeepLAPI struct {
	key  string
	http *http.Client
}

func NewDeepLAPI(key string) *DeepLAPI {
	return &DeepLAPI{key: key, http: &http.Client{Timeout: 10 * time.Second}}
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate 翻译一段文本。key 未配置返回 ErrNotConfigured，
// 上游任何异常统一折叠为 ErrUpstream。
func (d *DeepLAPI) Translate(ctx context.Context, text, source, target string) (string, error) {
	if d.key == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(deeplRequest{
		Text:       []string{text},
		SourceLang: strings.ToUpper(source),
		TargetLang: strings.ToUpper(target),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deeplEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var data deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(data.Translations) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return data.Translations[0].Text, nil
}
