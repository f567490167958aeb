package ipinfo

import (
	"encoding/json"
	"io"
)

// Response is the JSON document returned by the ipinfo.io diagnostic
// endpoint. Only Timezone is required by the checker; the rest is kept for
// debug logging.
type Response struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
	Anycast  bool   `json:"anycast"`
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Org      string `json:"org"`
	Postal   string `json:"postal"`
	Timezone string `json:"timezone"`
}

// TimezoneOrUnknown returns the reported timezone, or "Unknown" when the
// endpoint's response did not include one.
func (r Response) TimezoneOrUnknown() string {
	if r.Timezone == "" {
		return "Unknown"
	}
	return r.Timezone
}

// Decode parses an endpoint response body.
func Decode(body io.Reader) (Response, error) {
	var info Response
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return Response{}, err
	}
	return info, nil
}
