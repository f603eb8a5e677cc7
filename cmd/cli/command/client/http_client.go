package client

// http_client.go wraps the bookhub HTTP API for the bookhubCLI application.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Author-related request/response structures
type AuthorResponse struct {
	ID         int64   `json:"id"`
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	SortKey    string  `json:"sort_key"`
	Bio        *string `json:"bio,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty"`
}

type AuthorListResponse struct {
	Authors    []AuthorResponse `json:"authors"`
	HasMore    bool             `json:"has_more"`
	NextCursor string           `json:"next_cursor"`
}

type AuthorDetailResponse struct {
	AuthorResponse
	Books []BookResponse `json:"books"`
}

type ImportRequest struct {
	ExternalID string `json:"external_id"`
}

type SkippedBook struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
}

type AuthorImportResponse struct {
	Author   AuthorResponse `json:"author"`
	Imported int            `json:"imported"`
	Skipped  []SkippedBook  `json:"skipped"`
}

type DeletionResponse struct {
	DeletedBooks   int `json:"deleted_book_count"`
	PreservedBooks int `json:"preserved_book_count"`
}

// Book-related request/response structures
type AuthorBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookResponse struct {
	ID            int64         `json:"id"`
	ExternalID    string        `json:"external_id"`
	Title         string        `json:"title"`
	ISBN          *string       `json:"isbn,omitempty"`
	PublishedDate *string       `json:"published_date,omitempty"`
	Owned         bool          `json:"owned"`
	OwnedSource   string        `json:"owned_source"`
	Authors       []AuthorBrief `json:"authors,omitempty"`
}

type BookListResponse struct {
	Books    []BookResponse `json:"books"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Description   *string `json:"description,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty"`
	Owned         *bool   `json:"owned,omitempty"`
}

// Library-related response structures
type RescanResponse struct {
	Entries      int `json:"entries"`
	Skipped      int `json:"skipped"`
	UpdatedBooks int `json:"updated_books"`
}

type LibraryStatusResponse struct {
	Scanned bool      `json:"scanned"`
	Entries int       `json:"entries"`
	Skipped int       `json:"skipped"`
	BuiltAt time.Time `json:"built_at"`
}

// Search structures
type SearchDoc struct {
	ExternalID string `json:"key"`
	Title      string `json:"title"`
	Authors    []struct {
		ExternalID string `json:"key"`
		Name       string `json:"name"`
	} `json:"authors"`
}

type SearchResponse struct {
	Total int         `json:"total"`
	Docs  []SearchDoc `json:"docs"`
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			// imports wait on upstream rate limiting, so be patient
			Timeout: 3 * time.Minute,
		},
	}
}

func (c *HTTPClient) getJSON(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *HTTPClient) postJSON(path string, body, result any, wantStatus int) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		var conflict struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err == nil && conflict.Error != "" {
			return fmt.Errorf("conflict: %s", conflict.Error)
		}
		return fmt.Errorf("conflict: %s", resp.Status)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// Author methods
func (c *HTTPClient) ListAuthors(cursor, letter string, limit int) (*AuthorListResponse, error) {
	params := url.Values{}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if letter != "" {
		params.Set("letter", letter)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	path := "/api/authors/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result AuthorListResponse
	if err := c.getJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetAuthor(id int64) (*AuthorDetailResponse, error) {
	var result AuthorDetailResponse
	if err := c.getJSON(fmt.Sprintf("/api/authors/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ImportAuthor(externalID string) (*AuthorImportResponse, error) {
	var result AuthorImportResponse
	err := c.postJSON("/api/authors/import", ImportRequest{ExternalID: externalID}, &result, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteAuthor(id int64) (*DeletionResponse, error) {
	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/api/authors/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to delete author: %s", resp.Status)
	}

	var result DeletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Book methods
func (c *HTTPClient) ListBooks(page, pageSize int) (*BookListResponse, error) {
	var result BookListResponse
	path := fmt.Sprintf("/api/books/?page=%d&page_size=%d", page, pageSize)
	if err := c.getJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetBook(id int64) (*BookResponse, error) {
	var result BookResponse
	if err := c.getJSON(fmt.Sprintf("/api/books/%d", id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ImportBook(externalID string) (*BookResponse, error) {
	var result BookResponse
	err := c.postJSON("/api/books/import", ImportRequest{ExternalID: externalID}, &result, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateBook(id int64, request *UpdateBookRequest) (*BookResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("PUT", fmt.Sprintf("%s/api/books/%d", c.baseURL, id), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to update book: %s", resp.Status)
	}

	var result BookResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteBook(id int64) error {
	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/api/books/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("failed to delete book: %s", resp.Status)
	}
	return nil
}

// Library methods
func (c *HTTPClient) Rescan(force bool) (*RescanResponse, error) {
	var result RescanResponse
	body := map[string]bool{"force": force}
	if err := c.postJSON("/api/library/rescan", body, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) LibraryStatus() (*LibraryStatusResponse, error) {
	var result LibraryStatusResponse
	if err := c.getJSON("/api/library/status", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search method
func (c *HTTPClient) Search(query string) (*SearchResponse, error) {
	var result SearchResponse
	path := "/api/search/?q=" + url.QueryEscape(query)
	if err := c.getJSON(path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
