package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const isoDate = "2006-01-02"

// Numeric keeps the raw text of a stored number. Stored documents are not
// schema-checked, so a value may be missing, a string, or garbage.
type Numeric string

// NumericOf builds a Numeric from a decimal value.
func NumericOf(d decimal.Decimal) Numeric {
	return Numeric(d.String())
}

// Decimal returns the parsed value, or zero when the raw text is not a number.
func (n Numeric) Decimal() decimal.Decimal {
	raw := strings.TrimSpace(string(n))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Valid reports whether the raw text parses as a number.
func (n Numeric) Valid() bool {
	_, err := decimal.NewFromString(strings.TrimSpace(string(n)))
	return err == nil
}

// MarshalJSON writes valid numbers as JSON numbers and anything else as a string.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.Valid() {
		return []byte(n.Decimal().String()), nil
	}
	return json.Marshal(string(n))
}

// UnmarshalJSON accepts numbers, strings and null.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
	default:
		*n = Numeric(data)
	}
	return nil
}

// MarshalBSONValue stores valid numbers as decimal128 and anything else as a string.
func (n Numeric) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !n.Valid() {
		return bson.MarshalValue(string(n))
	}
	d128, err := primitive.ParseDecimal128(n.Decimal().String())
	if err != nil {
		return bson.MarshalValue(string(n))
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue accepts any numeric BSON type, strings and null.
func (n *Numeric) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*n = ""
	case bsontype.Double:
		f := raw.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			*n = ""
			return nil
		}
		*n = Numeric(decimal.NewFromFloat(f).String())
	case bsontype.Int32:
		*n = Numeric(fmt.Sprint(raw.Int32()))
	case bsontype.Int64:
		*n = Numeric(fmt.Sprint(raw.Int64()))
	case bsontype.Decimal128:
		*n = Numeric(raw.Decimal128().String())
	case bsontype.String:
		*n = Numeric(raw.StringValue())
	default:
		// Unsupported types coerce to zero instead of failing the whole document.
		*n = ""
	}
	return nil
}

// Date keeps the raw text of a stored calendar date.
type Date string

// DateOf renders t as a Date in the wire format.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(isoDate))
}

// UnmarshalJSON accepts strings and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string dates are kept as raw text and later skipped as malformed.
		*d = Date(data)
		return nil
	}
	*d = Date(s)
	return nil
}

// MarshalBSONValue stores the date as a string.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(d))
}

// UnmarshalBSONValue accepts BSON strings and datetimes.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*d = Date(raw.StringValue())
	case bsontype.DateTime:
		*d = DateOf(raw.Time())
	default:
		*d = ""
	}
	return nil
}
