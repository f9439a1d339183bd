package standings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	scoringdomain "github.com/Black-And-White-Club/fantasy-frolf-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/config"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(liveURL, eventURL string) *Client {
	obs := observability.NewNoOp()
	return NewClient(config.PDGAConfig{LiveAPIURL: liveURL, EventAPIURL: eventURL}, obs.Logger, metrics.NoOpMetrics{})
}

func TestClient_FetchRound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "101154", r.URL.Query().Get("TournID"))
		assert.Equal(t, "MPO", r.URL.Query().Get("Division"))
		assert.Equal(t, "2", r.URL.Query().Get("Round"))
		fmt.Fprint(w, `{"data":{"scores":[
			{"Name":"Gannon Buhr","FirstName":"Gannon","LastName":"Buhr","RunningPlace":1,"ToPar":-14,"GrandTotal":104,"Completed":1},
			{"Name":"Ricky Wysocki","FirstName":"Ricky","LastName":"Wysocki","RunningPlace":"3","ToPar":"E","GrandTotal":"118","Completed":"0"}
		]}}`)
	}))
	defer srv.Close()

	rows, err := newTestClient(srv.URL, "").FetchRound(context.Background(), 101154, scoringdomain.DivisionMPO, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, int(rows[0].RunningPlace))
	assert.Equal(t, -14, int(rows[0].ToPar))
	assert.True(t, bool(rows[0].Completed))

	// Stringly-typed wire values still decode.
	assert.Equal(t, 3, int(rows[1].RunningPlace))
	assert.Equal(t, 0, int(rows[1].ToPar)) // "E" = even par
	assert.False(t, bool(rows[1].Completed))
}

func TestClient_FetchRound_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").FetchRound(context.Background(), 1, scoringdomain.DivisionFPO, 1)
	assert.ErrorContains(t, err, "status 502")
}

func TestClient_FetchFinal_ProbesRounds(t *testing.T) {
	var rounds []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		round := r.URL.Query().Get("Round")
		rounds = append(rounds, round)
		if round == "3" {
			fmt.Fprint(w, `{"data":{"scores":[{"Name":"Holyn Handley","RunningPlace":2,"ToPar":-6,"Completed":true}]}}`)
			return
		}
		// Round 4 exists but nobody has completed it.
		fmt.Fprint(w, `{"data":{"scores":[{"Name":"Holyn Handley","RunningPlace":2,"ToPar":-4,"Completed":0}]}}`)
	}))
	defer srv.Close()

	rows, err := newTestClient(srv.URL, "").FetchFinal(context.Background(), 77, scoringdomain.DivisionFPO)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"4", "3"}, rounds)
	assert.True(t, bool(rows[0].Completed))
}

func TestClient_LookupTournamentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ES,NT,M", r.URL.Query().Get("tier"))
		fmt.Fprint(w, `[
			{"name":"Jonesboro Open","tournament_id":"88123"},
			{"name":"PDGA Champions Cup","tournament_id":88200}
		]`)
	}))
	defer srv.Close()

	client := newTestClient("", srv.URL)

	id, err := client.LookupTournamentID(context.Background(), "champions cup", 2026)
	require.NoError(t, err)
	assert.Equal(t, 88200, id)

	_, err = client.LookupTournamentID(context.Background(), "waco annual charity", 2026)
	assert.ErrorContains(t, err, "no tournament matching")
}
