package codec

import (
	"reflect"
	"regexp"
	"time"
)

// reviveDates walks the decoded value behind dst and replaces date-shaped
// strings held in dynamically typed slots with time.Time.
func reviveDates(dst any, p *regexp.Regexp) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	walk(rv.Elem(), p)
}

func walk(v reflect.Value, p *regexp.Regexp) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			walk(v.Elem(), p)
		}
	case reflect.Interface:
		if v.IsNil() || !v.CanSet() {
			return
		}
		r := reflect.ValueOf(reviveAny(v.Interface(), p))
		if r.Type().AssignableTo(v.Type()) {
			v.Set(r)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).IsExported() {
				walk(v.Field(i), p)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			walk(v.Index(i), p)
		}
	case reflect.Map:
		walkMap(v, p)
	}
}

// map elements are not addressable: interface values are replaced through
// SetMapIndex, structs and arrays are copied, walked and stored back.
func walkMap(v reflect.Value, p *regexp.Regexp) {
	if v.IsNil() {
		return
	}
	et := v.Type().Elem()
	iter := v.MapRange()
	for iter.Next() {
		k, e := iter.Key(), iter.Value()
		switch et.Kind() {
		case reflect.Interface:
			if e.IsNil() {
				continue
			}
			r := reflect.ValueOf(reviveAny(e.Interface(), p))
			if r.Type().AssignableTo(et) {
				v.SetMapIndex(k, r)
			}
		case reflect.Pointer, reflect.Map, reflect.Slice:
			walk(e, p)
		case reflect.Struct, reflect.Array:
			cp := reflect.New(et).Elem()
			cp.Set(e)
			walk(cp, p)
			v.SetMapIndex(k, cp)
		}
	}
}

// reviveAny handles the shapes encoding/json produces for interface targets.
func reviveAny(x any, p *regexp.Regexp) any {
	switch t := x.(type) {
	case string:
		if ts, ok := parseDate(t, p); ok {
			return ts
		}
	case map[string]any:
		for k, e := range t {
			t[k] = reviveAny(e, p)
		}
	case []any:
		for i, e := range t {
			t[i] = reviveAny(e, p)
		}
	}
	return x
}

func parseDate(s string, p *regexp.Regexp) (time.Time, bool) {
	if !p.MatchString(s) {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// shaped like a date but not one (month 13 and friends)
		return time.Time{}, false
	}
	return ts.UTC(), true
}
