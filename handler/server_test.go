package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/internal/compound"
	"lendpool/pkg/metric"
	"lendpool/pkg/number"
	"lendpool/service/auth"
	"lendpool/service/bank"
	"lendpool/service/oracle"
	"lendpool/service/oracle/feed"
	"lendpool/service/pauser"
	"lendpool/service/pool"
	"lendpool/store/ledger"
	"lendpool/store/token"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	bank    *bank.Bank
}

func newTestServer(t *testing.T) *testServer {
	ctx := context.Background()
	clock := compound.NewManualClock(time.Unix(1_700_000_000, 0), 100, 15*time.Second)
	prices := feed.NewStatic(clock)
	tokens := token.New()
	pause := pauser.Memory()
	b := bank.New("pool")
	m := metric.New()

	p := pool.New(ledger.New(), tokens, pause, oracle.New(tokens, prices, clock), b, auth.New([]string{"admin"}), clock, pool.WithMetrics(m))
	require.Nil(t, p.SetupVault(ctx, "admin", &core.SupportedToken{Token: "X", Feed: "x-usd", Decimals: 18}, core.RateParams{
		ReserveRatio:       20000,
		OptimalUtilization: 8e17,
		Slope1:             4e16,
		Slope2:             3e18,
	}, true))
	prices.Set("x-usd", number.Decimal("1"))

	amount := new(uint256.Int).Mul(uint256.NewInt(40), number.Pow10(18))
	require.Nil(t, b.Credit("X", "alice", amount))

	s := New(Config{
		Version:      "test",
		AccessTokens: map[string]string{"a": "alice", "root": "admin"},
	}, p, tokens, pause, nil, clock, m)

	return &testServer{handler: s.Handler(), bank: b}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var v map[string]interface{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/hc", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "test", body["version"])
	assert.EqualValues(t, 100, body["step"])
}

func TestSupplyFlow(t *testing.T) {
	s := newTestServer(t)
	supply := `{"token":"X","amount":"40000000000000000000"}`

	w := s.do(http.MethodPost, "/api/actions/supply", "", supply)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/actions/supply", "a", supply)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	event := decode(t, w)["event"].(map[string]interface{})
	assert.Equal(t, "40000000000000000000", event["shares"])
	assert.True(t, s.bank.BalanceOf("X", "alice").IsZero())

	w = s.do(http.MethodGet, "/api/accounts/alice", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	account := decode(t, w)
	assert.Equal(t, "40", account["collateral_usd"])
	assert.Equal(t, "100", account["health_factor"])

	w = s.do(http.MethodGet, "/api/vaults/X", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	vault := decode(t, w)
	assert.Equal(t, "40", vault["supplied"])
	assert.Equal(t, "1", vault["price"])
	assert.Equal(t, false, vault["paused"])

	w = s.do(http.MethodGet, "/api/convert/X?side=asset&to=amount&value=1000", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", decode(t, w)["result"])

	w = s.do(http.MethodPost, "/api/actions/borrow", "a", `{"token":"X","amount":"40000000000000000000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.EqualValues(t, core.ErrInsufficientLiquidity, decode(t, w)["code"])
}

func TestErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/vaults/Z", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/actions/supply", "a", `{"token":"X","amount":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/actions/flash", "a", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/convert/X?side=both&to=amount&value=1", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/events", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminPause(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/admin/pause", "a", `{"scope":"X","paused":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/admin/pause", "root", `{"scope":"X","paused":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/actions/supply", "a", `{"token":"X","amount":"1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, core.ErrPaused, decode(t, w)["code"])

	w = s.do(http.MethodGet, "/api/vaults", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var vaults []map[string]interface{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &vaults))
	require.Len(t, vaults, 1)
	assert.Equal(t, true, vaults[0]["paused"])

	w = s.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lendpool_operations_total")
}

func TestAdminSetupVault(t *testing.T) {
	s := newTestServer(t)
	body := `{"token":"Y","feed":"y-usd","decimals":8,"add_token":true,"params":{"reserve_ratio":10000,"optimal_utilization":800000000000000000,"slope1":40000000000000000,"slope2":3000000000000000000}}`

	w := s.do(http.MethodPost, "/api/admin/vaults", "a", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/admin/vaults", "root", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	vault := decode(t, w)
	assert.Equal(t, "Y", vault["token"])
	assert.EqualValues(t, 8, vault["decimals"])

	w = s.do(http.MethodPost, "/api/admin/vaults", "root", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, core.ErrTokenExists, decode(t, w)["code"])
}
