/*
Package checker performs a single connectivity test against one proxy.

A test is one GET request to the diagnostic endpoint routed through the
proxy under test (for both HTTP and HTTPS traffic). The outcome is always
returned as a ProxyResult; network failures are classified into one of five
error kinds (HTTPError, ProxyError, ConnectionError, TimeoutError,
RequestError) and encoded into the result rather than propagated. For proxy
and connection failures, a best-effort scan of the error text recovers an
HTTP status code when one is mentioned.
*/
package checker

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"proxy-tester/pkg/ipinfo"
	"proxy-tester/pkg/models"
)

const (
	// DefaultEndpoint is the diagnostic service whose JSON response proves
	// the proxy can reach the outside world.
	DefaultEndpoint = "https://ipinfo.io/json"

	// DefaultTimeout bounds the whole request, connect included.
	DefaultTimeout = 5 * time.Second
)

// Checker tests proxies against a diagnostic endpoint.
type Checker struct {
	Endpoint string
	Timeout  time.Duration
}

// New returns a Checker with the default endpoint and timeout.
func New() *Checker {
	return &Checker{
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
	}
}

// statusPattern matches a 3-digit status code preceded by "HTTP" or
// "status" in free-text error messages.
var statusPattern = regexp.MustCompile(`(?i)(?:HTTP|status)\s+(\d{3})`)

// ExtractStatus recovers an HTTP status code from an error message, or 0
// when none is mentioned. Best-effort: a coincidental 3-digit token after
// "HTTP" or "status" will match.
func ExtractStatus(message string) int {
	m := statusPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return code
}

// BuildProxyURL constructs the proxy URL for a record. When a protocol
// column is mapped, a value of "yes" (any case) selects https, anything
// else http. Without one, the raw address is used verbatim and assumed to
// already be a full URL.
func BuildProxyURL(record models.ProxyRecord, fields models.FieldMap) string {
	address := record[fields.ProxyField]
	if fields.ProtocolField == "" {
		return address
	}
	scheme := "http"
	if strings.EqualFold(record[fields.ProtocolField], "yes") {
		scheme = "https"
	}
	return scheme + "://" + address
}

// Check tests the proxy described by one record and returns its result.
// Never returns an error: every failure is classified and encoded into the
// result's Error and Status fields.
func (c *Checker) Check(record models.ProxyRecord, fields models.FieldMap) models.ProxyResult {
	proxyURL := BuildProxyURL(record, fields)
	slog.Info("testing proxy", "proxy", proxyURL)

	result := models.ProxyResult{
		Proxy:        proxyURL,
		Location:     "Unknown",
		RealLocation: "Failed",
	}
	if fields.LocationField != "" {
		if location, ok := record[fields.LocationField]; ok {
			result.Location = location
		}
	}

	parsed, err := url.Parse(dialableURL(proxyURL))
	if err != nil {
		result.Error = fmt.Sprintf("RequestError: invalid proxy URL: %v", err)
		return normalize(result)
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyURL(parsed),
			DisableKeepAlives: true,
		},
		Timeout: c.Timeout,
	}

	resp, err := client.Get(c.Endpoint)
	if err != nil {
		kind, status := classify(err)
		result.Status = status
		result.Error = fmt.Sprintf("%s: %v", kind, err)
		return normalize(result)
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	info, decodeErr := ipinfo.Decode(resp.Body)
	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		result.Error = fmt.Sprintf("HTTPError: HTTP %d fetching %s", resp.StatusCode, c.Endpoint)
	case decodeErr != nil:
		result.Error = fmt.Sprintf("RequestError: decoding response: %v", decodeErr)
	default:
		result.RealLocation = info.TimezoneOrUnknown()
	}

	return normalize(result)
}

// dialableURL gives a schemeless address an http:// prefix so the transport
// can parse it. The reported result keeps the address as constructed.
func dialableURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}

// classify maps a request failure to an error kind and an extracted status
// code. Timeouts and generic failures always carry status 0.
func classify(err error) (kind string, status int) {
	message := err.Error()

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "TimeoutError", 0
	}
	// The transport prefixes failures to dial the proxy itself with
	// "proxyconnect".
	if strings.Contains(message, "proxyconnect") {
		return "ProxyError", ExtractStatus(message)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "ConnectionError", ExtractStatus(message)
	}
	if strings.Contains(message, "connection refused") ||
		strings.Contains(message, "connection reset") ||
		strings.Contains(message, "no such host") {
		return "ConnectionError", ExtractStatus(message)
	}
	return "RequestError", 0
}

// normalize forces any status below 200 to 0: no valid HTTP response.
func normalize(result models.ProxyResult) models.ProxyResult {
	if result.Status < http.StatusOK {
		result.Status = 0
	}
	return result
}
