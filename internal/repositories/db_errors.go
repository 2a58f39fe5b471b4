package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateKeyError checks for a MySQL/MariaDB unique index violation. The
// unique indexes on bids(service_request_id, provider_id) and bookings(bid_id)
// turn racing writers into this error, so callers can translate it into a
// domain conflict instead of a generic 500.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// isForeignKeyConstraintError checks if the error corresponds to a MySQL/MariaDB
// foreign key constraint failure.
func isForeignKeyConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1452
}
