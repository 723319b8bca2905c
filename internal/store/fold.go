package store

import (
	"database/sql/driver"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"modernc.org/sqlite"
)

// foldFunc is a SQL function that lower-cases with Unicode rules. SQLite's
// built-in LOWER only folds ASCII.
const foldFunc = "snipbox_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, fold)
}

func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// containsFold matches rows whose col contains substr, ignoring case.
func containsFold(col, substr string) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		b.WriteString(foldFunc + "(").Ident(col).WriteString(") LIKE ")
		b.Arg("%" + escapeLike(strings.ToLower(substr)) + "%")
		b.WriteString(` ESCAPE '\'`)
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
