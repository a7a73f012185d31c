package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "swing-journal/internal/errors"
	"swing-journal/pkg/utils"
)

// Service is the spreadsheet transport boundary. Tests substitute a fake;
// production uses the Google Sheets values API over HTTP.
type Service interface {
	Clear(ctx context.Context, sheet string) error
	Update(ctx context.Context, sheet string, values [][]string) error
	Read(ctx context.Context, sheet string) ([][]string, error)
}

// HTTPService implements Service against the Sheets v4 values endpoints.
type HTTPService struct {
	spreadsheetID string
	accessToken   string
	baseURL       string
	client        *http.Client
	retry         utils.RetryConfig
}

// NewHTTPService creates a Sheets client for the given spreadsheet.
func NewHTTPService(spreadsheetID, accessToken string) *HTTPService {
	return &HTTPService{
		spreadsheetID: spreadsheetID,
		accessToken:   accessToken,
		baseURL:       "https://sheets.googleapis.com/v4/spreadsheets",
		client:        &http.Client{Timeout: 15 * time.Second},
		retry:         utils.DefaultRetryConfig(),
	}
}

type valueRange struct {
	Values [][]string `json:"values,omitempty"`
}

// Clear empties the given sheet.
func (s *HTTPService) Clear(ctx context.Context, sheet string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:clear",
		s.baseURL, s.spreadsheetID, url.PathEscape(sheet))
	return utils.Retry(ctx, s.retry, func() error {
		return s.do(ctx, http.MethodPost, endpoint, nil, nil)
	})
}

// Update writes values into the sheet starting at A1, interpreting
// formulas (USER_ENTERED semantics).
func (s *HTTPService) Update(ctx context.Context, sheet string, values [][]string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED",
		s.baseURL, s.spreadsheetID, url.PathEscape(sheet))
	body := valueRange{Values: values}
	return utils.Retry(ctx, s.retry, func() error {
		return s.do(ctx, http.MethodPut, endpoint, body, nil)
	})
}

// Read fetches all values from the sheet.
func (s *HTTPService) Read(ctx context.Context, sheet string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s",
		s.baseURL, s.spreadsheetID, url.PathEscape(sheet))
	var out valueRange
	err := utils.Retry(ctx, s.retry, func() error {
		return s.do(ctx, http.MethodGet, endpoint, nil, &out)
	})
	if err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (s *HTTPService) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sheets api returned %s", apperrors.ErrRemoteUnavailable, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: unparseable response: %v", apperrors.ErrRemoteUnavailable, err)
		}
	}
	return nil
}
