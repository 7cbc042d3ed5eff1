package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// quoteFields selects price (f43), traded value (f47), name (f58) and
// day change (f170) from the push2 API.
const quoteFields = "f43,f47,f58,f170"

// quoteResponse is the push2 API envelope. Data is null when the code
// is unknown or the market is closed for it.
type quoteResponse struct {
	Data *quoteData `json:"data"`
}

type quoteData struct {
	Price     json.Number `json:"f43"`  // price in thousandths
	Volume    json.Number `json:"f47"`  // traded value in CNY
	Name      string      `json:"f58"`  //
	ChangePct json.Number `json:"f170"` // day change in hundredths of a percent
}

// FetchQuote fetches the live quote for one 6-digit code.
// SSOT: the push2 quote endpoint is called from this function only.
func (c *Client) FetchQuote(ctx context.Context, code string) (*Quote, error) {
	fullURL := fmt.Sprintf("%s/api/qt/stock/get?secid=%s&fields=%s",
		c.baseURL, SecID(code), quoteFields)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	quote, err := parseQuote(code, body)
	if err != nil {
		return nil, fmt.Errorf("parse quote for %s: %w", code, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"price": quote.Price,
	}).Debug("Fetched quote")
	return quote, nil
}

// SecID builds the market-prefixed security identifier the push2 API
// expects. Codes starting with 5 or 6 trade on Shanghai (market 1),
// everything else on Shenzhen (market 0).
func SecID(code string) string {
	market := "0"
	if strings.HasPrefix(code, "5") || strings.HasPrefix(code, "6") {
		market = "1"
	}
	return market + "." + code
}

// parseQuote decodes a push2 payload and descales its integer fields:
// price is reported in thousandths, change in hundredths of a percent
// and traded value in CNY (rendered downstream in 万元).
func parseQuote(code string, body []byte) (*Quote, error) {
	var envelope quoteResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	if envelope.Data == nil {
		return nil, fmt.Errorf("no quote data")
	}

	price, err := envelope.Data.Price.Float64()
	if err != nil {
		return nil, fmt.Errorf("price field: %w", err)
	}
	change, err := envelope.Data.ChangePct.Float64()
	if err != nil {
		return nil, fmt.Errorf("change field: %w", err)
	}
	volume, err := envelope.Data.Volume.Float64()
	if err != nil {
		return nil, fmt.Errorf("volume field: %w", err)
	}

	return &Quote{
		Code:      code,
		Name:      envelope.Data.Name,
		Price:     price / 1000,
		ChangePct: change / 100,
		Volume:    volume / 10000,
	}, nil
}
