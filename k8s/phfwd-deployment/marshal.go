package main

import (
	"bytes"
	"encoding/json"
)

func MustMarshal(v any) []byte {
	b := new(bytes.Buffer)
	encoder := json.NewEncoder(b)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		panic(err)
	}
	return b.Bytes()
}
