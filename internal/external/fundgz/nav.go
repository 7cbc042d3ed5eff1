package fundgz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// envelopePattern strips the JSONP wrapper the service always emits:
// jsonpgz({...});
var envelopePattern = regexp.MustCompile(`jsonpgz\((.+)\)`)

// estimate is the JSON body inside the jsonpgz envelope. Only the unit
// NAV is used; the service reports it as a decimal string.
type estimate struct {
	Code string `json:"fundcode"`
	Name string `json:"name"`
	NAV  string `json:"dwjz"`
}

// FetchNAV fetches the estimated unit NAV for one code. The rt query
// parameter busts the service's edge cache per call.
// SSOT: the fundgz endpoint is called from this function only.
func (c *Client) FetchNAV(ctx context.Context, code string) (float64, error) {
	fullURL := fmt.Sprintf("%s/js/%s.js?rt=%d", c.baseURL, code, time.Now().UnixMilli())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return 0, fmt.Errorf("nav request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response body failed: %w", err)
	}

	nav, err := parseNAV(string(body))
	if err != nil {
		return 0, fmt.Errorf("parse nav for %s: %w", code, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"code": code,
		"nav":  nav,
	}).Debug("Fetched NAV estimate")
	return nav, nil
}

// parseNAV extracts the unit NAV from a jsonpgz payload. An empty or
// unwrappable body means the service has no estimate for the code.
func parseNAV(body string) (float64, error) {
	match := envelopePattern.FindStringSubmatch(body)
	if match == nil {
		return 0, fmt.Errorf("no jsonpgz envelope")
	}

	var est estimate
	if err := json.Unmarshal([]byte(match[1]), &est); err != nil {
		return 0, fmt.Errorf("decode payload: %w", err)
	}

	nav, err := strconv.ParseFloat(est.NAV, 64)
	if err != nil {
		return 0, fmt.Errorf("dwjz field %q: %w", est.NAV, err)
	}

	return nav, nil
}
