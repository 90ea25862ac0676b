package deploy

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"
)

type upgradeParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// upgradeParameters encodes overrides as the JSON list sfctl expects, sorted
// by key. No overrides encode as [].
func upgradeParameters(params map[string]string) string {
	keys := lo.Keys(params)
	slices.Sort(keys)
	list := make([]upgradeParameter, 0, len(keys))
	for _, k := range keys {
		list = append(list, upgradeParameter{Key: k, Value: params[k]})
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
