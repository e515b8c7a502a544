package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ResultSet is the serialized form of a list of keys or values returned by
// a query.
type ResultSet struct {
	Results [][]byte
}

var _ timelock.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []timelock.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]timelock.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]timelock.Model, len(kref))
	for i := range mods {
		mods[i] = timelock.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o timelock.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
