package store

import "database/sql"

// DBForTest exposes the handle so tests can stage states the API never produces.
func DBForTest(s *Store) *sql.DB {
	return s.db
}
