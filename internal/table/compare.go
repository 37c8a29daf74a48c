package table

import (
	"cmp"
	"fmt"
	"math"
	"time"
)

// CompareTuples orders tuples left to right using Compare on each position.
// A shorter tuple that is a prefix of a longer one sorts first.
func CompareTuples(a, b []interface{}) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Compare orders values naturally: nil first, then booleans, numbers
// (numerically across integer and float kinds), times, and strings
// (lexically). Anything else compares by its printed form.
func Compare(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		return cmp.Compare(boolInt(a.(bool)), boolInt(b.(bool)))
	case rankNumber:
		if ua, ok := asUint64(a); ok && ua > math.MaxInt64 {
			return compareBigUnsigned(ua, b)
		}
		if ub, ok := asUint64(b); ok && ub > math.MaxInt64 {
			return -compareBigUnsigned(ub, a)
		}
		ia, aInt := asInt64(a)
		ib, bInt := asInt64(b)
		if aInt && bInt {
			return cmp.Compare(ia, ib)
		}
		return cmp.Compare(asFloat64(a), asFloat64(b))
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	case rankString:
		return cmp.Compare(a.(string), b.(string))
	default:
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankTime
	rankString
	rankOther
)

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return rankNumber
	case time.Time:
		return rankTime
	case string:
		return rankString
	default:
		return rankOther
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint64:
		return n, true
	default:
		return 0, false
	}
}

// compareBigUnsigned orders u, which exceeds every int64, against v.
func compareBigUnsigned(u uint64, v interface{}) int {
	if uv, ok := asUint64(v); ok {
		return cmp.Compare(u, uv)
	}
	switch f := v.(type) {
	case float32:
		return cmp.Compare(float64(u), float64(f))
	case float64:
		return cmp.Compare(float64(u), f)
	}
	return 1
}

func asFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		i, _ := asInt64(v)
		return float64(i)
	}
}
