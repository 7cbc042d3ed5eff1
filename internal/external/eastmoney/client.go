// Package eastmoney fetches live market quotes from the Eastmoney push2 API.
package eastmoney

import (
	"github.com/wonny/etfscan/pkg/httputil"
	"github.com/wonny/etfscan/pkg/logger"
)

// Client handles communication with the Eastmoney quote API.
// SSOT: Eastmoney API calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Eastmoney client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "eastmoney"),
		baseURL:    "https://push2.eastmoney.com",
	}
}

// WithBaseURL overrides the API host. Test helper.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Quote is one live market quote, already descaled into natural units.
type Quote struct {
	Code      string
	Name      string
	Price     float64 // CNY
	ChangePct float64 // day change, percent
	Volume    float64 // traded value, 万元
}
