package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// note is a minimal model used to exercise buckets and indexes.
type note struct {
	Author []byte
	Text   string
}

var _ Model = (*note)(nil)

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func (n *note) Marshal() ([]byte, error) {
	return timelock.MarshalBinary(n)
}

func (n *note) Unmarshal(raw []byte) error {
	return timelock.UnmarshalBinary(raw, n)
}

func newNote(key, author, text string) Object {
	var a []byte
	if author != "" {
		a = []byte(author)
	}
	return NewSimpleObj([]byte(key), &note{Author: a, Text: text})
}

func noteAuthor(obj Object) ([]byte, error) {
	n, ok := obj.Value().(*note)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return n.Author, nil
}
