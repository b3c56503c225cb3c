//go:build !cgo_sqlite

package cache

import (
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const driverName = "sqlite"
