package smsdrop

import (
	"net/http"
	"time"
)

// AuthMode selects how the client authenticates against the provider.
type AuthMode string

const (
	// AuthSession authenticates via the session-key login endpoint.
	AuthSession AuthMode = "session"
	// AuthToken authenticates via the access-token login endpoint.
	AuthToken AuthMode = "token"
)

const (
	defaultBaseURL     = "https://api.smsdrop.net/API/v1.0/REST"
	defaultMessageType = TypeTI
	defaultEncoding    = "gsm"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	authMode    AuthMode
	messageType MessageType
	sender      string
	region      string
	encoding    string
}

// sendConfig holds per-send flags.
type sendConfig struct {
	allowInvalidRecipients bool
	returnRemaining        bool
	returnCredits          bool
}

// historyConfig holds optional history query parameters.
type historyConfig struct {
	to       time.Time
	page     int
	pageSize int
}

// Option configures the client.
type Option func(*clientConfig)

// SendOption configures a single send call.
type SendOption func(*sendConfig)

// HistoryOption configures a history query.
type HistoryOption func(*historyConfig)

// WithBaseURL sets the provider API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithAuthMode selects session or token authentication.
// Default: AuthSession.
func WithAuthMode(mode AuthMode) Option {
	return func(c *clientConfig) {
		c.authMode = mode
	}
}

// WithDefaultMessageType sets the tier applied to messages that do not
// specify one. Default: TypeTI.
func WithDefaultMessageType(t MessageType) Option {
	return func(c *clientConfig) {
		c.messageType = t
	}
}

// WithDefaultSender sets a registered sender alias applied to GP and TI
// messages that do not specify one. Basic-tier (SI) messages always use
// the account's default alias.
func WithDefaultSender(sender string) Option {
	return func(c *clientConfig) {
		c.sender = sender
	}
}

// WithDefaultRegion sets the ISO 3166-1 region used to normalize phone
// numbers that are not in international form.
func WithDefaultRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithEncoding sets the character-encoding hint applied to messages that
// do not specify one. Default: "gsm".
func WithEncoding(encoding string) Option {
	return func(c *clientConfig) {
		c.encoding = encoding
	}
}

// WithAllowInvalidRecipients asks the provider to accept the send even if
// some recipients are invalid.
func WithAllowInvalidRecipients() SendOption {
	return func(c *sendConfig) {
		c.allowInvalidRecipients = true
	}
}

// WithReturnRemaining asks the provider to report the remaining message
// quota in the send response.
func WithReturnRemaining() SendOption {
	return func(c *sendConfig) {
		c.returnRemaining = true
	}
}

// WithReturnCredits asks the provider to report credit usage in the send
// response.
func WithReturnCredits() SendOption {
	return func(c *sendConfig) {
		c.returnCredits = true
	}
}

// WithTo bounds a history query to sends created before t.
func WithTo(t time.Time) HistoryOption {
	return func(c *historyConfig) {
		c.to = t
	}
}

// WithPage selects a history result page (1-based).
func WithPage(page int) HistoryOption {
	return func(c *historyConfig) {
		c.page = page
	}
}

// WithPageSize sets the number of entries per history page.
func WithPageSize(size int) HistoryOption {
	return func(c *historyConfig) {
		c.pageSize = size
	}
}
