package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !isDuplicateKeyError(dup) {
		t.Fatal("1062 not recognized as duplicate key")
	}
	if !isDuplicateKeyError(fmt.Errorf("insert bids: %w", dup)) {
		t.Fatal("wrapped 1062 not recognized")
	}
	if isDuplicateKeyError(errors.New("connection refused")) {
		t.Fatal("plain error misread as duplicate key")
	}
}

func TestIsForeignKeyConstraintError(t *testing.T) {
	fk := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	if !isForeignKeyConstraintError(fk) {
		t.Fatal("1452 not recognized as foreign key failure")
	}
	if isForeignKeyConstraintError(&mysql.MySQLError{Number: 1062}) {
		t.Fatal("1062 misread as foreign key failure")
	}
	if isForeignKeyConstraintError(errors.New("connection refused")) {
		t.Fatal("plain error misread as foreign key failure")
	}
}
