package relcache

import "github.com/unkn0wn-root/relcache/internal/util"

// QueryKey builds the logical cache key for a query result, e.g.
// QueryKey("poems", map[string]any{"authorId": "a1", "limit": 20}) gives
// "Query:poems:<16 hex digits>". nil args give "Query:poems".
func QueryKey(operation string, args any) string {
	return util.QueryKey("Query:"+operation, args)
}
