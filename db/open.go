// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. Two engines are supported:
// "postgres" (lib/pq) for deployments and "sqlite" (modernc, pure Go) for
// local development and tests. All SQL in this codebase sticks to the $n
// placeholder dialect both drivers accept.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	switch databaseType {
	case "postgres":
		return sql.Open("postgres", databaseURL)
	case "sqlite", "":
		conn, err := sql.Open("sqlite", databaseURL)
		if err != nil {
			return nil, err
		}
		// A single connection keeps in-memory databases coherent and
		// sidesteps sqlite's writer locking.
		conn.SetMaxOpenConns(1)
		return conn, nil
	}
	return nil, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", databaseType)
}
