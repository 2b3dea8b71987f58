package impute_test

import (
	"fmt"

	"github.com/ezoic/creditprep/core/table"
)

// col builds a column from literals: nil is null, numbers become Number,
// strings become String.
func col(name string, vals ...interface{}) *table.Column {
	c := &table.Column{Name: name, Values: make([]table.Value, len(vals))}
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			c.Values[i] = table.Null()
		case int:
			c.Values[i] = table.Int(x)
		case float64:
			c.Values[i] = table.Number(x)
		case string:
			c.Values[i] = table.String(x)
		case bool:
			c.Values[i] = table.Bool(x)
		default:
			panic(fmt.Sprintf("unsupported literal %T", v))
		}
	}
	return c
}

func values(vals ...interface{}) []table.Value {
	return col("", vals...).Values
}

func column(t *table.Table, name string) []table.Value {
	c, ok := t.Column(name)
	if !ok {
		return nil
	}
	return c.Values
}
