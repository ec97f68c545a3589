package phfwdapi

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pnathan/phfwd/src/lib/phfwd"
)

func TestRuleSetBuild(t *testing.T) {
	rs := NewRuleSet([]phfwd.Rule{
		{Prefix: "13", Target: "5"},
		{Prefix: "13", Target: "6"},
		{Prefix: "#", Target: "*"},
	})
	pf, err := rs.Build()
	require.NoError(t, err)
	assert.Equal(t, []phfwd.Rule{
		{Prefix: "13", Target: "6"},
		{Prefix: "#", Target: "*"},
	}, pf.Rules())

	bad := NewRuleSet([]phfwd.Rule{{Prefix: "1", Target: "2"}, {Prefix: "7", Target: "7"}})
	_, err = bad.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, phfwd.ErrSelfForward))
	assert.Contains(t, err.Error(), "rule 1")
}

func TestRuleSetHash(t *testing.T) {
	a := NewRuleSet([]phfwd.Rule{{Prefix: "1", Target: "23"}})
	b := NewRuleSet([]phfwd.Rule{{Prefix: "12", Target: "3"}})
	c := NewRuleSet([]phfwd.Rule{{Prefix: "1", Target: "23"}})

	assert.Len(t, a.GetHash(), 64)
	assert.Equal(t, a.GetHash(), c.GetHash())
	assert.NotEqual(t, a.GetHash(), b.GetHash())
	assert.NotEqual(t, a.ETag(), NewRuleSet(nil).ETag())
	assert.Equal(t, 130, len(a.ETag()))
}

func TestReadRuleSet(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "rules.json")
	require.NoError(t, ioutil.WriteFile(filename, []byte(`{"rules":[{"prefix":"13","target":"5"}]}`), 0o600))

	rs, err := ReadRuleSet(filename)
	require.NoError(t, err)
	assert.Equal(t, []phfwd.Rule{{Prefix: "13", Target: "5"}}, rs.Rules)

	_, err = ReadRuleSet(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	require.NoError(t, ioutil.WriteFile(filename, []byte(`{"rules":`), 0o600))
	_, err = ReadRuleSet(filename)
	assert.Error(t, err)
}

func TestNewNumberList(t *testing.T) {
	pf := phfwd.New()
	require.NoError(t, pf.Add("13", "5"))

	nl := NewNumberList(pf.Reverse("513"))
	assert.True(t, nl.Valid)
	assert.Equal(t, []string{"1313", "513"}, nl.Strings())

	absent := NewNumberList(pf.Get("5x"))
	assert.False(t, absent.Valid)
	require.Len(t, absent.Numbers, 1)
	assert.Nil(t, absent.Numbers[0])
	assert.Empty(t, absent.Strings())

	text, err := json.Marshal(absent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"numbers":[null],"valid":false}`, string(text))
}

func TestClient(t *testing.T) {
	var putRule phfwd.Rule
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rules", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&putRule))
			if putRule.Prefix == putRule.Target {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte("self forward"))
				return
			}
			_, _ = w.Write([]byte("ok"))
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(NewRuleSet([]phfwd.Rule{{Prefix: "1", Target: "2"}}))
		}
	})
	mux.HandleFunc("/api/rules/", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.URL.Path
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/forward/", func(w http.ResponseWriter, r *http.Request) {
		s := r.URL.Path
		_ = json.NewEncoder(w).Encode(&NumberList{Numbers: []*string{&s}, Valid: true})
	})
	mux.HandleFunc("/api/statistics", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	require.NoError(t, PutRule(&phfwd.Rule{Prefix: "1", Target: "2"}, srv.URL))
	assert.Equal(t, phfwd.Rule{Prefix: "1", Target: "2"}, putRule)

	err := PutRule(&phfwd.Rule{Prefix: "3", Target: "3"}, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "self forward")

	require.NoError(t, DeleteRule("12#", srv.URL))
	assert.Equal(t, "/api/rules/12#", deleted)

	rs, err := GetRules(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []phfwd.Rule{{Prefix: "1", Target: "2"}}, rs.Rules)

	nl, err := GetForward("*#", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/forward/*#"}, nl.Strings())

	_, err = GetStatistics(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status 500")
}
