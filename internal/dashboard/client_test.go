package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/moraine/internal/clock"
	"grimm.is/moraine/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *clock.MockClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mock := clock.NewMockClock(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	cfg := &config.DashboardConfig{
		APIKey:     "test-key",
		OrgID:      "123456",
		BaseURL:    srv.URL,
		MaxRetries: 3,
		Timeout:    "5s",
		RateLimit:  100,
	}
	return New(cfg, WithClock(mock)), mock
}

func TestDoSetsAuthHeaders(t *testing.T) {
	var gotAuth, gotKey, gotUA string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-Cisco-Meraki-API-Key")
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `[]`)
	}))

	_, err := c.ListNetworks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotUA, "Moraine/")
}

func TestListNetworksPagination(t *testing.T) {
	var baseURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/organizations/123456/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startingAfter") == "" {
			w.Header().Set("Link",
				fmt.Sprintf(`<%s/organizations/123456/networks?perPage=1000&startingAfter=N_1>; rel=next`, baseURL))
			fmt.Fprint(w, `[{"id":"N_1","name":"Branch-01","productTypes":["appliance"]}]`)
			return
		}
		fmt.Fprint(w, `[{"id":"N_2","name":"Branch-02","productTypes":["appliance","switch"]}]`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	baseURL = srv.URL

	cfg := &config.DashboardConfig{
		APIKey: "k", OrgID: "123456", BaseURL: srv.URL,
		MaxRetries: 1, Timeout: "5s", RateLimit: 100,
	}
	c := New(cfg, WithClock(clock.NewMockClock(time.Now())))

	nets, err := c.ListNetworks(context.Background())
	require.NoError(t, err)
	require.Len(t, nets, 2)
	assert.Equal(t, "Branch-01", nets[0].Name)
	assert.Equal(t, "Branch-02", nets[1].Name)
}

func TestListApplianceNetworksFiltering(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":"N_1","name":"Branch-01","productTypes":["appliance"]},
			{"id":"N_2","name":"Camera-Net","productTypes":["camera"]},
			{"id":"N_3","name":"Branch-02","productTypes":["appliance","wireless"]}
		]`)
	}))

	all, err := c.ListApplianceNetworks(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2, "non-appliance networks filtered out")

	some, err := c.ListApplianceNetworks(context.Background(), []string{"Branch-02"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "N_3", some[0].ID)
}

func TestDoRetriesOn429(t *testing.T) {
	attempts := 0
	c, mock := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"errors":["rate limit exceeded"]}`)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	_, err := c.ListNetworks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	// Both throttled attempts honored Retry-After: 2
	var waited time.Duration
	for _, d := range mock.Slept() {
		waited += d
	}
	assert.GreaterOrEqual(t, waited, 4*time.Second)
}

func TestDoGivesUpAfterRetryBudget(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"errors":["rate limit exceeded"]}`)
	}))

	_, err := c.ListNetworks(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestDoRetriesOn503(t *testing.T) {
	attempts := 0
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	_, err := c.ListNetworks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestAPIErrorDecoding(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":["Name has already been taken"]}`)
	}))

	_, err := c.CreatePolicyObject(context.Background(), PolicyObject{Name: "dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name has already been taken")
	assert.Contains(t, err.Error(), "400")
}

func TestCreatePolicyObject(t *testing.T) {
	var received PolicyObject
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/organizations/123456/policyObjects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		// The dashboard replies with a numeric ID
		fmt.Fprintf(w, `{"id": 4182, "name": %q, "category": "network", "type": "cidr", "cidr": "10.0.0.0/24"}`, received.Name)
	}))

	created, err := c.CreatePolicyObject(context.Background(), PolicyObject{
		Name:     "web-server",
		Category: "network",
		Type:     "cidr",
		CIDR:     "10.0.0.0/24",
	})
	require.NoError(t, err)

	assert.Equal(t, "web-server", received.Name)
	assert.Equal(t, "4182", created.ID.String())
}

func TestGetAndUpdateL3FirewallRules(t *testing.T) {
	var pushed ruleSet
	mux := http.NewServeMux()
	mux.HandleFunc("/networks/N_1/appliance/firewall/l3FirewallRules", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"rules":[
				{"comment":"Allow DNS","policy":"allow","protocol":"udp","srcCidr":"Any","srcPort":"Any","destCidr":"Any","destPort":"53"},
				{"comment":"Default rule","policy":"allow","protocol":"Any","srcCidr":"Any","srcPort":"Any","destCidr":"Any","destPort":"Any"}
			]}`)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pushed))
			require.NoError(t, json.NewEncoder(w).Encode(pushed))
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.DashboardConfig{
		APIKey: "k", OrgID: "123456", BaseURL: srv.URL,
		MaxRetries: 1, Timeout: "5s", RateLimit: 100,
	}
	c := New(cfg, WithClock(clock.NewMockClock(time.Now())))

	rules, err := c.GetL3FirewallRules(context.Background(), "N_1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "53", rules[0].DestPort)

	_, err = c.UpdateL3FirewallRules(context.Background(), "N_1", rules[:1])
	require.NoError(t, err)
	require.Len(t, pushed.Rules, 1)
	assert.Equal(t, "Allow DNS", pushed.Rules[0].Comment)
}

func TestNextLink(t *testing.T) {
	h := http.Header{}
	h.Set("Link", `<https://api.example.com/api/v1/organizations/1/networks?perPage=1000&startingAfter=N_9>; rel=next, <https://api.example.com/api/v1/organizations/1/networks?perPage=1000>; rel=first`)
	assert.Equal(t,
		"https://api.example.com/api/v1/organizations/1/networks?perPage=1000&startingAfter=N_9",
		nextLink(h))

	assert.Equal(t, "", nextLink(http.Header{}))
}

func TestRetryAfterCap(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "600")
	assert.Equal(t, retryAfterCap, retryAfter(h))

	h.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, retryAfter(h))

	assert.Equal(t, time.Second, retryAfter(http.Header{}))
}
