package ipinfo

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantErr      bool
		wantTimezone string
	}{
		{
			name:         "full response",
			body:         `{"ip":"198.51.100.7","city":"Berlin","country":"DE","timezone":"Europe/Berlin"}`,
			wantTimezone: "Europe/Berlin",
		},
		{
			name:         "timezone absent",
			body:         `{"ip":"198.51.100.7","country":"DE"}`,
			wantTimezone: "Unknown",
		},
		{
			name:    "not JSON",
			body:    "<html>blocked</html>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Decode(strings.NewReader(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := info.TimezoneOrUnknown(); got != tt.wantTimezone {
				t.Errorf("TimezoneOrUnknown() = %q, want %q", got, tt.wantTimezone)
			}
		})
	}
}
