// Package sheets is a row-oriented client for the remote spreadsheet API.
// The store supports append, ranged read, and rectangular overwrite - there is
// deliberately no delete primitive, and callers must not assume one.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/gauth"
	"github.com/opencampus/portal/internal/logger"
)

// valueRange mirrors the API's values payload for both directions.
type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values,omitempty"`
}

// Client performs authenticated row I/O against one spreadsheet.
type Client struct {
	http          *resty.Client
	tokens        *gauth.TokenSource
	spreadsheetID string
	log           logger.Logger
}

func New(baseURL, spreadsheetID string, tokens *gauth.TokenSource, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
		tokens:        tokens,
		spreadsheetID: spreadsheetID,
		log:           log,
	}
}

// Append adds one row after the last non-empty row of the named table.
func (c *Client) Append(ctx context.Context, table string, row []string) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}

	path := fmt.Sprintf("/spreadsheets/%s/values/%s:append", c.spreadsheetID, url.PathEscape(table))
	body := valueRange{Values: [][]string{row}}

	resp, err := c.withAuth(ctx, func(token string) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParam("valueInputOption", "USER_ENTERED").
			SetQueryParam("insertDataOption", "INSERT_ROWS").
			SetBody(body).
			Post(path)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apperr.StoreWrite(fmt.Sprintf("append to %s rejected with status %d", table, resp.StatusCode()))
	}
	return nil
}

// ReadRange returns rows from the table. An empty rng reads the whole table,
// header row included at index 0. An empty table yields no rows, not an error.
func (c *Client) ReadRange(ctx context.Context, table, rng string) ([][]string, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/spreadsheets/%s/values/%s", c.spreadsheetID, url.PathEscape(qualifiedRange(table, rng)))

	resp, err := c.withAuth(ctx, func(token string) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			Get(path)
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperr.StoreRead(fmt.Sprintf("read of %s rejected with status %d", table, resp.StatusCode()))
	}

	var vr valueRange
	if err := json.Unmarshal(resp.Body(), &vr); err != nil {
		return nil, apperr.StoreRead("unparseable read response").WithCause(err)
	}
	if vr.Values == nil {
		return [][]string{}, nil
	}
	return vr.Values, nil
}

// UpdateRange overwrites a rectangular block of cells.
func (c *Client) UpdateRange(ctx context.Context, table, rng string, rows [][]string) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}

	path := fmt.Sprintf("/spreadsheets/%s/values/%s", c.spreadsheetID, url.PathEscape(qualifiedRange(table, rng)))
	body := valueRange{Values: rows}

	resp, err := c.withAuth(ctx, func(token string) (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParam("valueInputOption", "USER_ENTERED").
			SetBody(body).
			Put(path)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apperr.StoreWrite(fmt.Sprintf("update of %s rejected with status %d", table, resp.StatusCode()))
	}
	return nil
}

func (c *Client) checkConfigured() error {
	if c.spreadsheetID == "" {
		return apperr.Configuration("spreadsheet id not configured")
	}
	return nil
}

// withAuth attaches a bearer credential and retries exactly once on a 401,
// after forcing a re-exchange. Transport failures map to store errors.
func (c *Client) withAuth(ctx context.Context, call func(token string) (*resty.Response, error)) (*resty.Response, error) {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := call(cred.Value)
	if err != nil {
		return nil, apperr.StoreRead("spreadsheet API unreachable").WithCause(err)
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	// Stale credential: one re-authentication attempt, never a retry loop.
	c.log.Warn("bearer rejected by spreadsheet API, re-authenticating once")
	c.tokens.Invalidate()
	cred, err = c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	resp, err = call(cred.Value)
	if err != nil {
		return nil, apperr.StoreRead("spreadsheet API unreachable").WithCause(err)
	}
	return resp, nil
}

func qualifiedRange(table, rng string) string {
	if rng == "" {
		return table
	}
	return table + "!" + rng
}
