package smsdrop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smsdrop/client-go/internal/api"
)

// Client talks to the SmsDrop provider. It authenticates lazily on the
// first call and holds the credential for its lifetime; the credential
// cell is mutex-guarded, so a Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	auth      api.Authenticator
	username  string
	password  string

	defaultType   MessageType
	defaultSender string
	defaultRegion string
	encoding      string

	mu     sync.Mutex
	cred   api.Credential
	closed bool
}

// New creates a new SmsDrop client for the given account credentials.
// No network call is made until the first operation.
func New(username, password string, opts ...Option) (*Client, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientConfig{
		baseURL:     defaultBaseURL,
		authMode:    AuthSession,
		messageType: defaultMessageType,
		encoding:    defaultEncoding,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}

	apiClient := api.New(apiOpts...)
	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	var auth api.Authenticator
	switch cfg.authMode {
	case AuthToken:
		auth = api.NewTokenAuth(apiClient)
	default:
		auth = api.NewSessionAuth(apiClient)
	}

	return &Client{
		apiClient:     apiClient,
		auth:          auth,
		username:      username,
		password:      password,
		defaultType:   cfg.messageType,
		defaultSender: cfg.sender,
		defaultRegion: cfg.region,
		encoding:      cfg.encoding,
	}, nil
}

// NewRecipient normalizes raw using the client's default region and
// returns a Recipient for it.
func (c *Client) NewRecipient(raw string) (Recipient, error) {
	return ParseRecipient(raw, c.defaultRegion, nil)
}

// NewRecipientWithVariables normalizes raw and attaches template
// variables for parameterized sends.
func (c *Client) NewRecipientWithVariables(raw string, variables map[string]string) (Recipient, error) {
	return ParseRecipient(raw, c.defaultRegion, variables)
}

// Login authenticates eagerly. Calling it is optional: every operation
// authenticates lazily on first use. It is useful to fail fast on bad
// credentials at startup.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.credential(ctx)
	return err
}

// credential returns the held credential, logging in first if none has
// been obtained yet. Login happens at most once per client lifetime.
func (c *Client) credential(ctx context.Context) (api.Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClientClosed
	}
	if c.cred != nil {
		return c.cred, nil
	}

	cred, err := c.auth.Login(ctx, c.username, c.password)
	if err != nil {
		return nil, wrapError(err)
	}
	c.cred = cred
	return cred, nil
}

func (c *Client) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// applyDefaults fills the message fields the caller left empty from the
// client configuration. The default sender is not applied to SI
// messages, which always use the account's default alias.
func (c *Client) applyDefaults(msg *Message) {
	if msg.Type == "" {
		msg.Type = c.defaultType
	}
	if msg.Encoding == "" {
		msg.Encoding = c.encoding
	}
	if msg.Sender == "" && c.defaultSender != "" && msg.Type != TypeSI {
		msg.Sender = c.defaultSender
	}
}

// Send submits msg to its individual recipients. Parameterized bodies go
// to the parameterized endpoint. On success the provider-assigned order
// id is written back onto msg.OrderID as a documented post-condition, and
// is also carried in the returned SendResult.
func (c *Client) Send(ctx context.Context, msg *Message, opts ...SendOption) (*SendResult, error) {
	return c.send(ctx, msg, false, opts)
}

// SendToGroups submits msg to provider-side contact groups. Group sends
// have no parameterized variant; every recipient must be a Group.
func (c *Client) SendToGroups(ctx context.Context, msg *Message, opts ...SendOption) (*SendResult, error) {
	return c.send(ctx, msg, true, opts)
}

func (c *Client) send(ctx context.Context, msg *Message, groupSend bool, opts []SendOption) (*SendResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	sc := sendConfig{}
	for _, opt := range opts {
		opt(&sc)
	}

	c.applyDefaults(msg)

	// Validation runs entirely before any network call, including the
	// login call: an invalid message never leaves the process.
	req, err := buildSendRequest(msg, groupSend, sc)
	if err != nil {
		return nil, err
	}

	cred, err := c.credential(ctx)
	if err != nil {
		return nil, err
	}

	var resp *api.SendResponse
	switch {
	case groupSend:
		resp, err = c.apiClient.SendToGroups(ctx, cred, req)
	case msg.HasParameters():
		resp, err = c.apiClient.SendParamSMS(ctx, cred, req)
	default:
		resp, err = c.apiClient.SendSMS(ctx, cred, req)
	}
	if err != nil {
		return nil, wrapError(err)
	}

	msg.OrderID = resp.OrderID

	return &SendResult{
		OrderID:           resp.OrderID,
		Result:            resp.Result,
		TotalSent:         resp.TotalSent,
		RemainingMessages: resp.RemainingMessages,
		UsedCredits:       resp.UsedCredits,
	}, nil
}

// Status retrieves the per-recipient delivery status of a submitted
// send. An order id unknown to the provider yields an empty slice, not
// an error: the contract is "no status yet".
func (c *Client) Status(ctx context.Context, orderID string) ([]RecipientDeliveryState, error) {
	cred, err := c.credential(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.apiClient.GetStatus(ctx, cred, orderID)
	if err != nil {
		err = wrapError(err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	states := make([]RecipientDeliveryState, 0, len(resp.Recipients))
	for _, r := range resp.Recipients {
		state := RecipientDeliveryState{
			Recipient: r.Destination,
			Status:    r.Status,
		}
		if r.DeliveryDate != "" {
			delivered, err := api.ParseTimestamp(r.DeliveryDate)
			if err != nil {
				return nil, fmt.Errorf("parse delivery date %q: %w", r.DeliveryDate, err)
			}
			state.DeliveryDate = delivered
		}
		states = append(states, state)
	}
	return states, nil
}

// DeleteScheduled cancels a scheduled delivery. Returns true on success
// and false, without error, when the provider does not know the order id.
func (c *Client) DeleteScheduled(ctx context.Context, orderID string) (bool, error) {
	cred, err := c.credential(ctx)
	if err != nil {
		return false, err
	}

	if err := c.apiClient.DeleteScheduled(ctx, cred, orderID); err != nil {
		err = wrapError(err)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// History retrieves the account's send history starting at from. Unlike
// Status and DeleteScheduled, every provider error propagates.
func (c *Client) History(ctx context.Context, from time.Time, opts ...HistoryOption) ([]HistoryEntry, error) {
	cred, err := c.credential(ctx)
	if err != nil {
		return nil, err
	}

	hc := historyConfig{}
	for _, opt := range opts {
		opt(&hc)
	}

	resp, err := c.apiClient.GetHistory(ctx, cred, api.HistoryQuery{
		From:     from,
		To:       hc.to,
		Page:     hc.page,
		PageSize: hc.pageSize,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	entries := make([]HistoryEntry, 0, len(resp.SMSHistory))
	for _, e := range resp.SMSHistory {
		entry := HistoryEntry{
			OrderID:       e.OrderID,
			Type:          MessageType(e.MessageType),
			NumRecipients: e.NumRecipients,
			Sender:        e.Sender,
		}
		if e.CreateTime != "" {
			created, err := api.ParseTimestamp(e.CreateTime)
			if err != nil {
				return nil, fmt.Errorf("parse create time %q: %w", e.CreateTime, err)
			}
			entry.CreateTime = created
		}
		if e.ScheduleTime != "" {
			scheduled, err := api.ParseTimestamp(e.ScheduleTime)
			if err != nil {
				return nil, fmt.Errorf("parse schedule time %q: %w", e.ScheduleTime, err)
			}
			entry.ScheduleTime = scheduled
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close discards the held credential and rejects further operations.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.cred = nil
	return nil
}
