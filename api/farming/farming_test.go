// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/test/datagen"
	"github.com/vechain/yieldfarm/test/testnode"
	"github.com/vechain/yieldfarm/thor"
)

var (
	ts   *httptest.Server
	tn   *testnode.Node
	accs = genesis.DevAccounts()
)

func initFarmingServer(t *testing.T) {
	var err error
	tn, err = testnode.New()
	require.NoError(t, err)
	t.Cleanup(tn.Close)

	router := mux.NewRouter()
	New(tn.Node).Mount(router, "/farming")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getJSON(t *testing.T, path string, v any) {
	body, code := httpGet(t, ts.URL+path)
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, v))
}

func str(v *math.HexOrDecimal256) string {
	return (*big.Int)(v).String()
}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestFarming(t *testing.T) {
	initFarmingServer(t)

	for _, tt := range []struct {
		name string
		fn   func(*testing.T)
	}{
		{"params", testParams},
		{"pool", testPool},
		{"penalty", testPenalty},
		{"badRequests", testBadRequests},
		{"balances", testBalances},
		{"stakeViews", testStakeViews},
		{"viewsFollowHead", testViewsFollowHead},
	} {
		t.Run(tt.name, tt.fn)
	}
}

func testParams(t *testing.T) {
	var params Params
	getJSON(t, "/farming/params", &params)

	assert.Equal(t, accs[0].Address, params.Owner)
	assert.False(t, params.Paused)
	assert.Equal(t, testnode.LaunchTime, params.DeploymentTime)
	assert.Equal(t, thor.DefaultStakingDurationDays*thor.SecondsPerDay, params.StakingDuration)
	assert.Equal(t, params.DeploymentTime+params.StakingDuration, params.PoolEndTime)
	assert.Equal(t, thor.DefaultReferralPercents(), params.ReferralPercents)
	assert.Equal(t, thor.DefaultNoReferrerFee, params.NoReferrerFee)
	assert.Equal(t, thor.DefaultReferrerFee, params.ReferrerFee)
	assert.Equal(t, []thor.Address{genesis.DevStakedToken}, params.Pools)
}

func testPool(t *testing.T) {
	var p Pool
	getJSON(t, "/farming/pools/"+genesis.DevStakedToken.String(), &p)

	assert.Equal(t, genesis.DevStakedToken, p.StakedToken)
	assert.Equal(t, units(1).String(), str(p.MinStakeAmount))
	assert.Equal(t, units(100_000).String(), str(p.MaxStakeAmount))
	require.Len(t, p.Rewards, 2)
	assert.Equal(t, genesis.DevRewardToken, p.Rewards[0].Token)
	assert.Equal(t, genesis.DevBonusToken, p.Rewards[1].Token)
	assert.Equal(t, uint64(20), p.MaxPenaltyPercent)
	require.NotNil(t, p.ReferralToken)
	assert.Equal(t, genesis.DevReferralToken, *p.ReferralToken)

	_, code := httpGet(t, ts.URL+"/farming/pools/"+datagen.RandAddress().String())
	assert.Equal(t, http.StatusNotFound, code)
}

func testPenalty(t *testing.T) {
	var p Penalty
	getJSON(t, "/farming/pools/"+genesis.DevStakedToken.String()+"/penalty", &p)

	// full penalty at launch
	assert.Equal(t, "20000000000000", str(p.MaxPenaltyPercent))
	assert.Equal(t, str(p.MaxPenaltyPercent), str(p.PenaltyPercent))
	assert.Equal(t, 30*thor.SecondsPerDay, p.PenaltyDuration)
	assert.Equal(t, accs[0].Address, p.PenaltyReceiver)

	_, code := httpGet(t, ts.URL+"/farming/pools/"+datagen.RandAddress().String()+"/penalty")
	assert.Equal(t, http.StatusNotFound, code)
}

func testBadRequests(t *testing.T) {
	for _, path := range []string{
		"/farming/pools/0x1234",
		"/farming/users/abc",
		"/farming/users/" + accs[1].Address.String() + "/stakes?limit=0",
		"/farming/users/" + accs[1].Address.String() + "/stakes?offset=x",
		"/farming/users/" + accs[1].Address.String() + "/stakes/x",
		"/farming/users/" + accs[9].Address.String() + "/stakes/7",
		"/farming/balances/0x/" + accs[1].Address.String(),
	} {
		body, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusBadRequest, code, path+": "+string(body))
	}
}

func testStakeViews(t *testing.T) {
	_, err := tn.Stake(1, 2, 100)
	require.NoError(t, err)
	_, err = tn.Stake(1, -1, 50)
	require.NoError(t, err)

	var user User
	getJSON(t, "/farming/users/"+accs[1].Address.String(), &user)
	assert.Equal(t, accs[1].Address, user.Address)
	require.NotNil(t, user.Referrer)
	assert.Equal(t, accs[2].Address, *user.Referrer)
	assert.Equal(t, uint64(2), user.StakesCount)
	assert.Equal(t, uint64(2), user.Nonce)
	assert.False(t, user.IsActive)

	var details StakingDetails
	getJSON(t, "/farming/users/"+accs[1].Address.String()+"/stakes?offset=1&limit=10", &details)
	require.Len(t, details.Stakes, 1)
	assert.Equal(t, uint64(1), details.Stakes[0].ID)
	assert.True(t, details.Stakes[0].Active)
	assert.Equal(t, units(50).String(), str(details.Stakes[0].Amount))
	assert.Equal(t, units(150).String(), str(details.TotalStaked))

	var st Stake
	getJSON(t, "/farming/users/"+accs[1].Address.String()+"/stakes/0", &st)
	assert.Equal(t, genesis.DevStakedToken, st.Pool)
	assert.Equal(t, units(100).String(), str(st.Amount))
	assert.False(t, st.Unstaked)

	var referrals Referrals
	getJSON(t, "/farming/users/"+accs[2].Address.String()+"/referrals", &referrals)
	assert.Equal(t, uint64(1), referrals.Count)
	assert.Equal(t, []thor.Address{accs[1].Address}, referrals.Referrals)

	tn.Clock().Advance(thor.SecondsPerDay)

	var plain, penalized []Claim
	getJSON(t, "/farming/users/"+accs[1].Address.String()+"/stakes/0/rewards", &plain)
	getJSON(t, "/farming/users/"+accs[1].Address.String()+"/stakes/0/rewards?penalty=true", &penalized)
	require.Len(t, plain, 2)
	require.Len(t, penalized, 2)
	assert.Equal(t, genesis.DevRewardToken, plain[0].Token)
	assert.Equal(t, genesis.DevBonusToken, plain[1].Token)
	for i := range plain {
		assert.Equal(t, 1, (*big.Int)(plain[i].Amount).Sign())
		assert.Equal(t, 1, (*big.Int)(plain[i].Amount).Cmp((*big.Int)(penalized[i].Amount)))
	}

	_, code := httpGet(t, ts.URL+"/farming/users/"+accs[1].Address.String()+"/stakes/0/rewards?penalty=maybe")
	assert.Equal(t, http.StatusBadRequest, code)
}

func testBalances(t *testing.T) {
	var b Balance
	getJSON(t, "/farming/balances/"+genesis.DevStakedToken.String()+"/"+accs[5].Address.String(), &b)
	assert.Equal(t, units(1_000_000).String(), str(b.Balance))
}

func testViewsFollowHead(t *testing.T) {
	path := "/farming/balances/" + genesis.DevStakedToken.String() + "/" + accs[6].Address.String()
	var before, after Balance
	getJSON(t, path, &before)

	_, err := tn.Stake(6, -1, 10)
	require.NoError(t, err)

	getJSON(t, path, &after)
	assert.Equal(t, units(1_000_000-10).String(), str(after.Balance))
	assert.NotEqual(t, str(before.Balance), str(after.Balance))
}
