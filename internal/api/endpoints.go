package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SendSMS submits a plain send to individual recipients.
func (c *Client) SendSMS(ctx context.Context, cred Credential, req *SendRequest) (*SendResponse, error) {
	return c.send(ctx, cred, "/sms", req)
}

// SendParamSMS submits a parameterized send to individual recipients.
func (c *Client) SendParamSMS(ctx context.Context, cred Credential, req *SendRequest) (*SendResponse, error) {
	return c.send(ctx, cred, "/paramsms", req)
}

// SendToGroups submits a send to provider-side contact groups.
func (c *Client) SendToGroups(ctx context.Context, cred Credential, req *SendRequest) (*SendResponse, error) {
	return c.send(ctx, cred, "/smstogroups", req)
}

func (c *Client) send(ctx context.Context, cred Credential, path string, req *SendRequest) (*SendResponse, error) {
	var result SendResponse
	if err := c.Do(ctx, http.MethodPost, path, cred, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStatus retrieves per-recipient delivery status for an order.
func (c *Client) GetStatus(ctx context.Context, cred Credential, orderID string) (*StatusResponse, error) {
	path := fmt.Sprintf("/sms/%s", url.PathEscape(orderID))
	var result StatusResponse
	if err := c.Do(ctx, http.MethodGet, path, cred, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteScheduled cancels a scheduled delivery by order id.
func (c *Client) DeleteScheduled(ctx context.Context, cred Credential, orderID string) error {
	path := fmt.Sprintf("/sms/%s", url.PathEscape(orderID))
	return c.Do(ctx, http.MethodDelete, path, cred, nil, nil)
}

// HistoryQuery holds the parameters of a history query. From is
// mandatory; the zero values of the other fields omit the parameter.
type HistoryQuery struct {
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// encode renders the query string with parameters in the provider's
// documented order: from, to, pageNumber, pageSize.
func (q HistoryQuery) encode() string {
	params := []string{"from=" + FormatTimestamp(q.From)}
	if !q.To.IsZero() {
		params = append(params, "to="+FormatTimestamp(q.To))
	}
	if q.Page > 0 {
		params = append(params, "pageNumber="+strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params = append(params, "pageSize="+strconv.Itoa(q.PageSize))
	}
	return strings.Join(params, "&")
}

// GetHistory retrieves the account's send history.
func (c *Client) GetHistory(ctx context.Context, cred Credential, query HistoryQuery) (*HistoryResponse, error) {
	var result HistoryResponse
	if err := c.Do(ctx, http.MethodGet, "/smshistory?"+query.encode(), cred, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
