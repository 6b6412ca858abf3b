package nostr

import (
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type fieldDecoder func(iter *jsoniter.Iterator, field string) error

type objectSchema struct {
	fields   map[string]fieldDecoder
	required []string
}

// decode reads a single JSON object. Fields are visited in document order so
// the first unrecognised field is the one reported.
func (schema objectSchema) decode(data []byte) error {
	iter := jsonAPI.BorrowIterator(data)
	defer jsonAPI.ReturnIterator(iter)

	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		if iter.Error != nil {
			return JSON(iter.Error.Error())
		}
		return jsonErrorf("invalid type: %s, expected an object", valueTypeName(next))
	}

	seen := make(map[string]bool, len(schema.fields))
	var failure error
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		if iter.Error != nil {
			return false
		}
		decodeField, known := schema.fields[field]
		if !known {
			failure = UnknownKey(field)
			return false
		}
		if seen[field] {
			failure = jsonErrorf("duplicate field `%s`", field)
			return false
		}
		seen[field] = true
		if err := decodeField(iter, field); err != nil {
			failure = err
			return false
		}
		return iter.Error == nil
	})
	if failure != nil {
		return failure
	}
	if iter.Error != nil {
		return JSON(iter.Error.Error())
	}

	iter.WhatIsNext()
	if iter.Error != io.EOF {
		return JSON("trailing characters after JSON object")
	}

	for _, field := range schema.required {
		if !seen[field] {
			return jsonErrorf("missing field `%s`", field)
		}
	}
	return nil
}

func valueTypeName(valueType jsoniter.ValueType) string {
	switch valueType {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid value"
	}
}

func expectValue(iter *jsoniter.Iterator, field string, expected jsoniter.ValueType) error {
	next := iter.WhatIsNext()
	if iter.Error != nil {
		return JSON(iter.Error.Error())
	}
	if next != expected {
		return jsonErrorf("invalid type for `%s`: %s, expected %s", field, valueTypeName(next), valueTypeName(expected))
	}
	return nil
}

func readString(iter *jsoniter.Iterator, field string) (string, error) {
	if err := expectValue(iter, field, jsoniter.StringValue); err != nil {
		return "", err
	}
	value := iter.ReadString()
	if iter.Error != nil {
		return "", JSON(iter.Error.Error())
	}
	return value, nil
}

func readTags(iter *jsoniter.Iterator, field string) (Tags, error) {
	if err := expectValue(iter, field, jsoniter.ArrayValue); err != nil {
		return nil, err
	}
	tags := make(Tags, 0)
	var failure error
	iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
		if err := expectValue(iter, field, jsoniter.ArrayValue); err != nil {
			failure = err
			return false
		}
		tag := make([]string, 0, 2)
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			value, err := readString(iter, field)
			if err != nil {
				failure = err
				return false
			}
			tag = append(tag, value)
			return true
		})
		if failure != nil || iter.Error != nil {
			return false
		}
		tags = append(tags, tag)
		return true
	})
	if failure != nil {
		return nil, failure
	}
	if iter.Error != nil {
		return nil, JSON(iter.Error.Error())
	}
	return tags, nil
}

func decodeEventID(target *EventID) fieldDecoder {
	return func(iter *jsoniter.Iterator, field string) error {
		value, err := readString(iter, field)
		if err != nil {
			return err
		}
		id, err := EventIDFromHex(value)
		if err != nil {
			return err
		}
		*target = id
		return nil
	}
}

func decodePublicKey(target *PublicKey) fieldDecoder {
	return func(iter *jsoniter.Iterator, field string) error {
		value, err := readString(iter, field)
		if err != nil {
			return err
		}
		publicKey, err := PublicKeyFromHex(value)
		if err != nil {
			return err
		}
		*target = publicKey
		return nil
	}
}

func (e *Event) schema() objectSchema {
	return objectSchema{
		fields: map[string]fieldDecoder{
			"id":     decodeEventID(&e.ID),
			"pubkey": decodePublicKey(&e.PubKey),
			"created_at": func(iter *jsoniter.Iterator, field string) error {
				if err := expectValue(iter, field, jsoniter.NumberValue); err != nil {
					return err
				}
				value := iter.ReadInt64()
				if iter.Error != nil {
					return JSON(iter.Error.Error())
				}
				if value < 0 {
					return jsonErrorf("invalid value for `%s`: %d", field, value)
				}
				e.CreatedAt = value
				return nil
			},
			"kind": func(iter *jsoniter.Iterator, field string) error {
				if err := expectValue(iter, field, jsoniter.NumberValue); err != nil {
					return err
				}
				e.Kind = iter.ReadUint16()
				if iter.Error != nil {
					return JSON(iter.Error.Error())
				}
				return nil
			},
			"tags": func(iter *jsoniter.Iterator, field string) error {
				tags, err := readTags(iter, field)
				if err != nil {
					return err
				}
				e.Tags = tags
				return nil
			},
			"content": func(iter *jsoniter.Iterator, field string) error {
				value, err := readString(iter, field)
				if err != nil {
					return err
				}
				e.Content = value
				return nil
			},
			"sig": func(iter *jsoniter.Iterator, field string) error {
				value, err := readString(iter, field)
				if err != nil {
					return err
				}
				signature, err := SignatureFromHex(value)
				if err != nil {
					return err
				}
				e.Sig = signature
				return nil
			},
		},
		required: []string{"id", "pubkey", "created_at", "kind", "tags", "content", "sig"},
	}
}

// UnmarshalJSON decodes a NIP-01 event, rejecting unknown fields.
func (e *Event) UnmarshalJSON(data []byte) error {
	var decoded Event
	if err := decoded.schema().decode(data); err != nil {
		return err
	}
	*e = decoded
	return nil
}

// EventFromJSON decodes and returns an event. The event is not verified.
func EventFromJSON(data []byte) (Event, error) {
	var event Event
	if err := event.UnmarshalJSON(data); err != nil {
		return Event{}, err
	}
	return event, nil
}

// MarshalJSON writes the NIP-01 fields in canonical order.
func (e Event) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 320+len(e.Content))
	buf = append(buf, `{"id":"`...)
	buf = append(buf, e.ID.Hex()...)
	buf = append(buf, `","pubkey":"`...)
	buf = append(buf, e.PubKey.Hex()...)
	buf = append(buf, `","created_at":`...)
	buf = strconv.AppendInt(buf, e.CreatedAt, 10)
	buf = append(buf, `,"kind":`...)
	buf = strconv.AppendUint(buf, uint64(e.Kind), 10)
	buf = append(buf, `,"tags":`...)
	buf = appendTags(buf, e.Tags)
	buf = append(buf, `,"content":`...)
	buf = appendJSONString(buf, e.Content)
	buf = append(buf, `,"sig":"`...)
	buf = append(buf, e.Sig.Hex()...)
	buf = append(buf, `"}`...)
	return buf, nil
}

// AsJSON returns the event's JSON text.
func (e Event) AsJSON() string {
	encoded, _ := e.MarshalJSON()
	return string(encoded)
}

// UnmarshalJSON accepts exactly the "id" and "pubkey" fields.
func (p *EventPointer) UnmarshalJSON(data []byte) error {
	var decoded EventPointer
	schema := objectSchema{
		fields: map[string]fieldDecoder{
			"id":     decodeEventID(&decoded.ID),
			"pubkey": decodePublicKey(&decoded.PubKey),
		},
		required: []string{"id", "pubkey"},
	}
	if err := schema.decode(data); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// MarshalJSON encodes the pointer as {"id","pubkey"}.
func (p EventPointer) MarshalJSON() ([]byte, error) {
	return []byte(`{"id":"` + p.ID.Hex() + `","pubkey":"` + p.PubKey.Hex() + `"}`), nil
}
