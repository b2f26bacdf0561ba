package livebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/Turgon37/LiveboxTools/logger"
	"github.com/Turgon37/LiveboxTools/str"
)

var Version = "dev"

// Defaults match a factory Livebox reachable on the local network.
const (
	DefaultProtocol = "http"
	DefaultHost     = "livebox"
	DefaultUsername = "admin"

	authenticatePath = "/authenticate"
	logoutPath       = "/logout"
	sysbusPrefix     = "/sysbus/"
)

// DefaultParams is the JSON body sent to a sysbus endpoint when the caller
// provides none.
const DefaultParams = `{"parameters":{}}`

// Client talks to the Livebox sysbus API. It owns a single reused HTTP
// client whose cookie jar persists and replays whatever Set-Cookie values
// the router issues during the authenticate handshake. A Client is meant to
// be used by one logical caller at a time.
type Client struct {
	protocol string
	host     string
	port     int
	username string
	password str.MaskedString
	timeout  time.Duration
	client   *http.Client

	contextID string
	connected bool

	logger logger.Logger
}

type Option func(*Client)

// WithProtocol sets the URL scheme used to reach the router (http or https).
func WithProtocol(protocol string) Option {
	return func(c *Client) {
		c.protocol = protocol
	}
}

// WithHost sets the router hostname or address.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// WithPort sets a non-default TCP port.
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithUsername overrides the default admin username.
func WithUsername(username string) Option {
	return func(c *Client) {
		c.username = username
	}
}

// WithPassword sets a default password used by Login when the caller passes
// an empty one.
func WithPassword(password string) Option {
	return func(c *Client) {
		c.password = str.NewMaskedString(password)
	}
}

// WithTimeout bounds each request round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient substitutes the underlying HTTP client. A cookie jar is
// attached if the given client has none.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// New returns a Client for the router at protocol://host[:port]. No network
// traffic happens until Login or the first call.
func New(log logger.Logger, opts ...Option) *Client {
	c := &Client{
		protocol: DefaultProtocol,
		host:     DefaultHost,
		username: DefaultUsername,
		logger:   log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root URL of the router management interface.
func (c *Client) BaseURL() string {
	if c.port > 0 {
		return fmt.Sprintf("%s://%s:%d", c.protocol, c.host, c.port)
	}
	return fmt.Sprintf("%s://%s", c.protocol, c.host)
}

// Connected reports whether a session is currently established.
func (c *Client) Connected() bool {
	return c.connected
}

// ContextID returns the session token issued by the router at login, or an
// empty string when not connected.
func (c *Client) ContextID() string {
	return c.contextID
}

func UserAgent() string {
	version := Version
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	return "Go Livebox Tools/" + version
}

// httpClient lazily builds the single reused HTTP client. The cookie jar is
// what carries the router session cookie across calls.
func (c *Client) httpClient() *http.Client {
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	if c.client.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.client.Jar = jar
	}
	return c.client
}

type authenticateResponse struct {
	Status int `json:"status"`
	Data   struct {
		ContextID string `json:"contextID"`
		Groups    string `json:"groups"`
	} `json:"data"`
}

// Login performs the authenticate handshake. An empty password falls back
// to the one configured with WithPassword. On success the session cookie is
// retained by the jar and the contextID by the Client; on any failure the
// session stays unauthenticated.
func (c *Client) Login(ctx context.Context, password string) error {
	if password == "" {
		password = c.password.Text()
	}
	if password == "" {
		return fmt.Errorf("livebox: no password provided and no default configured")
	}

	values := url.Values{
		"username": {c.username},
		"password": {password},
	}
	form := values.Encode()
	path := authenticatePath + "?" + form

	c.logger.Debug("authenticating user %s (password %s)", c.username, str.Mask(password))

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.request(ctx, path, []byte(form), http.MethodPost, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("authentication refused with status %s", resp.Status)
		return fmt.Errorf("livebox: authentication refused: %s", resp.Status)
	}

	var auth authenticateResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return newError(CategoryDecode, c.BaseURL()+authenticatePath, http.MethodPost, err)
	}
	if auth.Data.ContextID == "" {
		return fmt.Errorf("livebox: authenticate response carries no contextID")
	}

	c.contextID = auth.Data.ContextID
	c.connected = true
	c.logger.Info("authenticated on %s", c.BaseURL())
	return nil
}

// Logout tears down the session. It is a no-op when not connected. The
// local session state is cleared even if the router call fails.
func (c *Client) Logout(ctx context.Context) error {
	if !c.connected {
		return nil
	}
	_, err := c.callAuthenticated(ctx, logoutPath, nil, nil, http.MethodPost)
	c.contextID = ""
	c.connected = false
	c.logger.Info("logged out from %s", c.BaseURL())
	return err
}

// request performs one HTTP round trip on the reused client. Fixed headers
// are merged under any caller-provided ones. Each transport failure kind is
// logged with its own message and wrapped in a categorized *Error.
func (c *Client) request(ctx context.Context, path string, body []byte, method string, headers http.Header) (*http.Response, error) {
	u, err := url.Parse(c.BaseURL() + path)
	if err != nil {
		c.logger.Error("invalid request url %s: %s", c.BaseURL()+path, err)
		return nil, newError(CategoryURL, c.BaseURL()+path, method, err)
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		c.logger.Error("cannot build %s request for %s: %s", method, u, err)
		return nil, newError(CategoryRequest, u.String(), method, err)
	}

	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Content-Type", "application/json")
	for key, vals := range headers {
		for _, val := range vals {
			req.Header.Set(key, val)
		}
	}

	log := c.logger.With(map[string]interface{}{"req": uuid.NewString()[:8]})
	if masked, err := str.MaskURL(u.String()); err == nil {
		log.Trace("sending request: %s %s", method, masked)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Error("request to %s failed: %s", c.host, err)
		return nil, newError(CategorySend, u.String(), method, err)
	}
	log.Debug("response status: %s", resp.Status)
	return resp, nil
}

// callUnauthenticated issues a request with no session headers and returns
// the raw body when one is present, nil otherwise.
func (c *Client) callUnauthenticated(ctx context.Context, path string, body []byte, method string) ([]byte, error) {
	resp, err := c.request(ctx, path, body, method, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(CategoryRead, c.BaseURL()+path, method, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// callAuthenticated issues a request carrying the session headers. The body
// is only considered usable when the response media type is exactly
// application/json, parameters ignored.
func (c *Client) callAuthenticated(ctx context.Context, path string, body []byte, headers http.Header, method string) ([]byte, error) {
	h := http.Header{}
	for key, vals := range headers {
		for _, val := range vals {
			h.Set(key, val)
		}
	}
	h.Set("X-Context", c.contextID)
	h.Set("X-Sah-Request-Type", "idle")
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("X-Prototype-Version", "1.7")
	h.Set("DNT", "1")

	resp, err := c.request(ctx, path, body, method, h)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(CategoryRead, c.BaseURL()+path, method, err)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if len(data) == 0 || mediaType != "application/json" {
		return nil, nil
	}
	return data, nil
}

// sysbus routes a call under the sysbus RPC namespace, authenticated or
// not, and returns the raw usable JSON body (nil when the router sent
// nothing decodable).
func (c *Client) sysbus(ctx context.Context, endpoint, params string, auth bool, method string) ([]byte, error) {
	if method == "" {
		method = http.MethodPost
	}
	path := sysbusPrefix + endpoint
	if auth {
		return c.callAuthenticated(ctx, path, []byte(params), nil, method)
	}
	return c.callUnauthenticated(ctx, path, []byte(params), method)
}

// Sysbus calls an arbitrary sysbus endpoint, e.g. "NMC:getWANStatus". An
// empty params string sends the default {"parameters":{}} body. The decoded
// JSON value is returned, or nil when the router sent no usable response.
func (c *Client) Sysbus(ctx context.Context, endpoint, params string, auth bool, method string) (any, error) {
	if params == "" {
		params = DefaultParams
	}
	raw, err := c.sysbus(ctx, endpoint, params, auth, method)
	return decodeAny(raw, err)
}

func decodeAny(raw []byte, err error) (any, error) {
	if err != nil || raw == nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, newError(CategoryDecode, "", "", err)
	}
	return out, nil
}
