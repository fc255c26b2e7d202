// Package upstream реализует клиент админского REST API удалённого бекенда.
//
// Бекенд — единственный источник истины по пользователям, продуктам,
// страницам и категориям. Все запросы уходят с сервисным bearer-токеном.
// Ответы бекенда исторически неоднородны: один и тот же список может
// прийти голым массивом или объектом {data: [...]}, ссылки на категории —
// строкой или объектом. Весь разбор сведён в одну функцию на конечную
// точку, любая незнакомая форма — типизированная ошибка, а не тихий nil.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Client — HTTP-клиент бекенда.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError — ошибка уровня API: не-2xx статус либо success=false в теле.
// Message берётся из поля message ответа, если бекенд его прислал.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// New создаёт клиента бекенда из секции конфига.
func New(cfg config.Upstream) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.ServiceToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do выполняет запрос и складывает тело ответа в raw.
// Не-2xx статусы превращаются в *APIError с message из тела, если оно есть.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var raw json.RawMessage
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			var body struct {
				Message string `json:"message"`
				Error   string `json:"error"`
			}
			if json.Unmarshal(raw, &body) == nil {
				apiErr.Message = body.Message
				if apiErr.Message == "" {
					apiErr.Message = body.Error
				}
			}
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		// Некоторые ручки отвечают пустым телом на 2xx.
		return nil, nil
	}
	return raw, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// decodeSlice приводит ответ-список к единой форме: принимает либо голый
// массив, либо объект с массивом под ключом key или data.
func decodeSlice(raw json.RawMessage, key string, out any) error {
	if len(raw) == 0 {
		return models.ErrUnexpectedShape
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}
	for _, k := range []string{key, "data"} {
		if inner, ok := envelope[k]; ok {
			return json.Unmarshal(inner, out)
		}
	}
	return fmt.Errorf("missing %q: %w", key, models.ErrUnexpectedShape)
}

// decodeObject приводит ответ-объект к единой форме: сам объект
// либо объект, завёрнутый в {data: {...}}.
func decodeObject(raw json.RawMessage, out any) error {
	if len(raw) == 0 || raw[0] != '{' {
		return models.ErrUnexpectedShape
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}
	if inner, ok := probe["data"]; ok && len(inner) > 0 && inner[0] == '{' {
		return json.Unmarshal(inner, out)
	}
	return json.Unmarshal(raw, out)
}

// totalCount достаёт totalCount из ответа-списка; 0, если бекенд его не прислал.
func totalCount(raw json.RawMessage) int {
	var envelope struct {
		TotalCount int `json:"totalCount"`
	}
	if len(raw) == 0 || raw[0] != '{' {
		return 0
	}
	_ = json.Unmarshal(raw, &envelope)
	return envelope.TotalCount
}
