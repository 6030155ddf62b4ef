package provider_test

import (
	"encoding/json"
	"strconv"
)

func itoa(i int) string { return strconv.Itoa(i) }

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
