package phfwdapi

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"gitlab.com/pnathan/phfwd/src/lib/log"
	"gitlab.com/pnathan/phfwd/src/lib/phfwd"
	"gitlab.com/pnathan/phfwd/src/lib/utility"
)

// RuleSet is the serialization of a whole forwarding trie.
type RuleSet struct {
	Rules []phfwd.Rule `json:"rules"`
}

func NewRuleSet(rules []phfwd.Rule) *RuleSet {
	if rules == nil {
		rules = []phfwd.Rule{}
	}
	return &RuleSet{Rules: rules}
}

// ReadRuleSet loads a JSON rule set from a file.
func ReadRuleSet(filename string) (*RuleSet, error) {
	filedata, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	rs := &RuleSet{}
	if err := json.Unmarshal(filedata, rs); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filename)
	}
	return rs, nil
}

// Build adds every rule, in order, to a fresh trie. A later rule for the
// same prefix replaces an earlier one.
func (rs *RuleSet) Build() (*phfwd.PhoneForward, error) {
	pf := phfwd.New()
	for idx, r := range rs.Rules {
		if err := pf.Add(r.Prefix, r.Target); err != nil {
			return nil, errors.Wrapf(err, "rule %d", idx)
		}
	}
	return pf, nil
}

// GetHash is a 64 byte SHAKE256 fingerprint of the rules, in order.
func (rs *RuleSet) GetHash() []byte {
	buf := []byte{}
	for _, r := range rs.Rules {
		buf = utility.Concat(buf,
			utility.UintToBytes(uint64(len(r.Prefix))), []byte(r.Prefix),
			utility.UintToBytes(uint64(len(r.Target))), []byte(r.Target))
	}
	h := make([]byte, 64)
	sha3.ShakeSum256(h, buf)
	return h
}

func (rs *RuleSet) ETag() string {
	return `"` + hex.EncodeToString(rs.GetHash()) + `"`
}

// NumberList is the serialization of query results. An absent element
// is encoded as null and Valid is false.
type NumberList struct {
	Numbers []*string `json:"numbers"`
	Valid   bool      `json:"valid"`
}

func NewNumberList(n *phfwd.Numbers) *NumberList {
	nl := &NumberList{Numbers: []*string{}, Valid: n.Valid()}
	for idx := 0; idx < n.Len(); idx++ {
		if s, ok := n.Get(idx); ok {
			nl.Numbers = append(nl.Numbers, &s)
		} else {
			nl.Numbers = append(nl.Numbers, nil)
		}
	}
	return nl
}

// Strings drops absent elements.
func (nl *NumberList) Strings() []string {
	retval := []string{}
	for _, e := range nl.Numbers {
		if e != nil {
			retval = append(retval, *e)
		}
	}
	return retval
}

type Statistics struct {
	Rules int `json:"rules"`
	Nodes int `json:"nodes"`
}

const (
	http_put    = "PUT"
	http_delete = "DELETE"
)

func httpPut(addr string, text []byte) (*http.Response, error) {
	return httpMethod(http_put, addr, text)
}

func httpDelete(addr string) (*http.Response, error) {
	return httpMethod(http_delete, addr, nil)
}

func httpMethod(method, addr string, text []byte) (*http.Response, error) {
	log.Debug("calling server", zap.String("method", method), zap.String("endpoint", addr))
	buf := bytes.NewBuffer(text)
	client := &http.Client{}
	req, err := http.NewRequest(method, addr, buf)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Warn("http error", zap.Error(err), zap.String("host", addr))
		return nil, err
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := ioutil.ReadAll(resp.Body)
	return errors.Errorf("bad status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
}

func getJSON(formulatedAddress string, v any) error {
	resp, err := http.Get(formulatedAddress)
	if err != nil {
		log.Warn("http error", zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(v); err != nil {
		log.Warn("decoding error", zap.Error(err), zap.String("address", formulatedAddress))
		return err
	}
	return nil
}

// PutRule registers r on the server at addr.
func PutRule(r *phfwd.Rule, addr string) error {
	text, err := json.Marshal(r)
	if err != nil {
		return err
	}
	formulatedAddress := fmt.Sprintf("%v/api/rules", addr)

	resp, err := httpPut(formulatedAddress, text)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusBadRequest:
		return errors.Wrap(statusError(resp), "rule rejected")
	}
	return statusError(resp)
}

// DeleteRule removes the rule for number and every longer rule below it.
func DeleteRule(number, addr string) error {
	formulatedAddress := fmt.Sprintf("%v/api/rules/%s", addr, url.PathEscape(number))
	resp, err := httpDelete(formulatedAddress)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// LoadRules replaces every rule on the server with rs.
func LoadRules(rs *RuleSet, addr string) error {
	text, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	formulatedAddress := fmt.Sprintf("%v/api/rules/load", addr)

	resp, err := httpPut(formulatedAddress, text)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func GetRules(addr string) (*RuleSet, error) {
	rs := &RuleSet{}
	if err := getJSON(fmt.Sprintf("%v/api/rules", addr), rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func getNumbers(addr, kind, number, suffix string) (*NumberList, error) {
	nl := &NumberList{}
	formulatedAddress := fmt.Sprintf("%v/api/%s/%s%s", addr, kind, url.PathEscape(number), suffix)
	if err := getJSON(formulatedAddress, nl); err != nil {
		return nil, err
	}
	return nl, nil
}

// GetForward resolves number on the server.
func GetForward(number, addr string) (*NumberList, error) {
	return getNumbers(addr, "forward", number, "")
}

// GetReverse lists every number the server's rules could turn into number.
func GetReverse(number, addr string) (*NumberList, error) {
	return getNumbers(addr, "reverse", number, "")
}

// GetConsistentReverse lists the numbers the server resolves to number.
func GetConsistentReverse(number, addr string) (*NumberList, error) {
	return getNumbers(addr, "reverse", number, "/consistent")
}

func GetStatistics(addr string) (*Statistics, error) {
	s := &Statistics{}
	if err := getJSON(fmt.Sprintf("%v/api/statistics", addr), s); err != nil {
		return nil, err
	}
	return s, nil
}
