// Package fundgz fetches estimated net asset values from fundgz.1234567.com.cn.
package fundgz

import (
	"github.com/wonny/etfscan/pkg/httputil"
	"github.com/wonny/etfscan/pkg/logger"
)

// Client handles communication with the fundgz NAV estimate service.
// SSOT: fundgz calls happen in this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new fundgz client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "fundgz"),
		baseURL:    "https://fundgz.1234567.com.cn",
	}
}

// WithBaseURL overrides the API host. Test helper.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}
