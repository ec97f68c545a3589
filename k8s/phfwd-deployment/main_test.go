package main

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/pnathan/phfwd/src/lib/phfwdapi"
)

func TestConfigData(t *testing.T) {
	empty, err := configData("")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rules":[]}`, empty)

	filename := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, ioutil.WriteFile(filename, []byte(`{"rules":[{"prefix":"2","target":"1"},{"prefix":"1","target":"3"},{"prefix":"2","target":"4"}]}`), 0o600))
	data, err := configData(filename)
	require.NoError(t, err)

	rs := &phfwdapi.RuleSet{}
	require.NoError(t, json.Unmarshal([]byte(data), rs))
	assert.Len(t, rs.Rules, 2)
	assert.Equal(t, "1", rs.Rules[0].Prefix)
	assert.Equal(t, "4", rs.Rules[1].Target)

	require.NoError(t, ioutil.WriteFile(filename, []byte(`{"rules":[{"prefix":"2","target":"2"}]}`), 0o600))
	_, err = configData(filename)
	assert.Error(t, err)
}

func TestServerContainer(t *testing.T) {
	c := serverContainer("phfwd:test", pulumi.String("rules"))
	assert.Equal(t, pulumi.String("phfwd:test"), c.Image)
	assert.Equal(t, pulumi.ToStringArray([]string{
		"/phfwd-server", "-p", "1337", "-r", "/etc/phfwd/rules.json",
	}), c.Args)
}
