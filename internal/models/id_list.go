package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// IDList holds opaque product identifiers. Clients send cart product ids as
// numbers or strings; both are kept in their textual form.
type IDList []string

func (l *IDList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] != '[' {
		value, err := decodeJSONID(trimmed)
		if err != nil {
			return err
		}
		*l = IDList{value}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make(IDList, 0, len(raw))
	for _, item := range raw {
		value, err := decodeJSONID(item)
		if err != nil {
			return err
		}
		out = append(out, value)
	}
	*l = out
	return nil
}

func decodeJSONID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("product id must be a string or number, got %s", string(raw))
	}
	return n.String(), nil
}

// MarshalJSON never emits null so clients always see an array.
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalBSONValue accepts both string and array BSON types, so a document
// written with a single scalar still decodes.
func (l *IDList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*l = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*l = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			*l = IDList{}
			return nil
		}
		*l = IDList{trimmed}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into IDList", t)
	}
}

// MarshalBSONValue always stores the list as an array.
func (l IDList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if l == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(l))
}
