package trigger

import (
	"fmt"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
)

// decodeFields converts typed Firestore values into plain Go values: string,
// bool, int64, float64, time.Time, []byte, nil, []interface{} and
// map[string]interface{}.
func decodeFields(fields map[string]*firestoredata.Value) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for name, v := range fields {
		decoded, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = decoded
	}
	return out, nil
}

func decodeValue(v *firestoredata.Value) (interface{}, error) {
	switch t := v.GetValueType().(type) {
	case *firestoredata.Value_NullValue:
		return nil, nil
	case *firestoredata.Value_StringValue:
		return t.StringValue, nil
	case *firestoredata.Value_ReferenceValue:
		return t.ReferenceValue, nil
	case *firestoredata.Value_BooleanValue:
		return t.BooleanValue, nil
	case *firestoredata.Value_IntegerValue:
		return t.IntegerValue, nil
	case *firestoredata.Value_DoubleValue:
		return t.DoubleValue, nil
	case *firestoredata.Value_TimestampValue:
		return t.TimestampValue.AsTime(), nil
	case *firestoredata.Value_BytesValue:
		return t.BytesValue, nil
	case *firestoredata.Value_GeoPointValue:
		return map[string]interface{}{
			"latitude":  t.GeoPointValue.GetLatitude(),
			"longitude": t.GeoPointValue.GetLongitude(),
		}, nil
	case *firestoredata.Value_ArrayValue:
		values := t.ArrayValue.GetValues()
		items := make([]interface{}, 0, len(values))
		for i, item := range values {
			decoded, err := decodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, decoded)
		}
		return items, nil
	case *firestoredata.Value_MapValue:
		return decodeFields(t.MapValue.GetFields())
	case nil:
		return nil, fmt.Errorf("value has no type")
	default:
		return nil, fmt.Errorf("unsupported value type %T", t)
	}
}
