package repository

import "strings"

// MySQL error numbers surfaced when a constraint catches a race the
// in-transaction checks could not see (a concurrent writer committing
// between our validation read and our write).
//
//	1062 duplicate entry for a unique key
//	1451 cannot delete, row referenced by a foreign key
//	1452 cannot insert, referenced row missing
//
// The checks run first, so these mappings only fire on genuine races; they
// fold the storage-level failure into the same sentinel the check would
// have produced.
func isMySQLErr(err error, number string) bool {
	return err != nil && strings.Contains(err.Error(), number)
}

func mapDuplicateKey(err error, sentinel error) error {
	if isMySQLErr(err, "1062") {
		return sentinel
	}
	return err
}

func mapForeignKey(err error) error {
	if isMySQLErr(err, "1452") {
		return ErrMissingReference
	}
	return err
}

func mapRestrictDelete(err error) error {
	if isMySQLErr(err, "1451") {
		return ErrRestrictDelete
	}
	return err
}
