package standings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The PDGA live API is loose with scalar types: numbers arrive as strings
// on some rounds and flags flip between 0/1, "1", and true. WireInt and
// WireBool absorb that so the rest of the module sees Go types.

// WireInt decodes from a JSON number, numeric string, or null.
type WireInt int

func (w *WireInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "E" {
		// "E" is even par on score fields.
		*w = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("cannot decode %q as integer: %w", s, err)
		}
		n = int(f)
	}
	*w = WireInt(n)
	return nil
}

// WireBool decodes from a JSON bool, number, or string.
type WireBool bool

func (w *WireBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*w = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")):
		*w = false
	default:
		s := strings.Trim(string(data), `"`)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*w = WireBool(strings.EqualFold(s, "true"))
			return nil
		}
		*w = n != 0
	}
	return nil
}

// ScoreRow is one player's row from live_results_fetch_round.
type ScoreRow struct {
	Name         string   `json:"Name"`
	FirstName    string   `json:"FirstName"`
	LastName     string   `json:"LastName"`
	RunningPlace WireInt  `json:"RunningPlace"`
	ToPar        WireInt  `json:"ToPar"`
	GrandTotal   WireInt  `json:"GrandTotal"`
	Completed    WireBool `json:"Completed"`
}

type liveResponse struct {
	Data struct {
		Scores []ScoreRow `json:"scores"`
	} `json:"data"`
}

// eventRecord is one tournament from the events API.
type eventRecord struct {
	Name         string  `json:"name"`
	TournamentID WireInt `json:"tournament_id"`
}

// Marshal helpers for tests and fixtures.
func (w WireInt) MarshalJSON() ([]byte, error)  { return json.Marshal(int(w)) }
func (w WireBool) MarshalJSON() ([]byte, error) { return json.Marshal(bool(w)) }
