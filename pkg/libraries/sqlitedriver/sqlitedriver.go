package sqlitedriver

import (
	"database/sql"
	"fmt"
	"github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3_mbtiles"

// connectionPragmas are applied to every new connection. Tile blobs are read
// and written in large sequential batches.
var connectionPragmas = []string{
	"PRAGMA temp_store = MEMORY",
	"PRAGMA cache_size = -65536",
}

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, pragma := range connectionPragmas {
				if _, err := conn.Exec(pragma, nil); err != nil {
					return fmt.Errorf("failed to apply %q: %w", pragma, err)
				}
			}
			return nil
		},
	})
}
