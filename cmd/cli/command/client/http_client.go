package client

// http_client.go wraps the libraryhub REST API for the CLI.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Kind   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%d %s)", e.Detail, e.Status, e.Kind)
	}
	return fmt.Sprintf("%s (%d)", e.Detail, e.Status)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type DiscrepancyList struct {
	Items []models.Discrepancy `json:"items"`
	Total int                  `json:"total"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a 2xx answer into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode >= http.StatusBadRequest {
		var e dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Kind: e.Kind, Detail: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Revoke(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/revoke", dto.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *HTTPClient) ListBooks(ctx context.Context, page, size int) (*dto.PageResponse[dto.BookResponse], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var out dto.PageResponse[dto.BookResponse]
	if err := c.do(ctx, http.MethodGet, "/books?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*dto.BookFullResponse, error) {
	var out dto.BookFullResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d/full", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateBook(ctx context.Context, req *dto.CreateBookRequest) (*dto.BookResponse, error) {
	var out dto.BookResponse
	if err := c.do(ctx, http.MethodPost, "/books", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

func (c *HTTPClient) CreateReader(ctx context.Context, req *dto.ReaderRequest) (*dto.ReaderResponse, error) {
	var out dto.ReaderResponse
	if err := c.do(ctx, http.MethodPost, "/readers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetReader(ctx context.Context, id int64, activeOnly bool) (*dto.ReaderFullResponse, error) {
	path := fmt.Sprintf("/readers/%d/full", id)
	if activeOnly {
		path += "?actual=true"
	}
	var out dto.ReaderFullResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Serve(ctx context.Context, bookID, readerID int64) (*dto.LoanResponse, error) {
	var out dto.LoanResponse
	if err := c.do(ctx, http.MethodPost, "/library/serve", dto.ServeRequest{BookID: bookID, ReaderID: readerID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Return(ctx context.Context, loanID int64) (*dto.LoanResponse, error) {
	var out dto.LoanResponse
	if err := c.do(ctx, http.MethodPost, "/library/return", dto.ReturnRequest{LoanID: loanID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Holdings(ctx context.Context, readerID int64) (*dto.HoldingsResponse, error) {
	var out dto.HoldingsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/library/info/%d", readerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Discrepancies(ctx context.Context, all bool) (*DiscrepancyList, error) {
	path := "/admin/discrepancies"
	if all {
		path += "?all=true"
	}
	var out DiscrepancyList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResolveDiscrepancy(ctx context.Context, id int64, apply bool) (*models.Discrepancy, error) {
	var out models.Discrepancy
	path := fmt.Sprintf("/admin/discrepancies/%d/resolve", id)
	if err := c.do(ctx, http.MethodPost, path, dto.ResolveDiscrepancyRequest{Apply: apply}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetRole(ctx context.Context, userID, role string) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	path := fmt.Sprintf("/admin/users/%s/role", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPut, path, dto.SetRoleRequest{Role: role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
