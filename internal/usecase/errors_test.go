package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func duplicateKey(constraint string) error {
	return fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint})
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(duplicateKey("providers_email_key"), "providers_email"))
	assert.False(t, isDuplicateKeyError(duplicateKey("specialties_name_key"), "providers_email"))
	assert.False(t, isDuplicateKeyError(errors.New("boom"), "providers_email"))
}

func TestIsForeignKeyError(t *testing.T) {
	err := &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "fk_providers_parent"}
	assert.True(t, isForeignKeyError(err, "parent"))
	assert.False(t, isForeignKeyError(err, "role"))
	assert.False(t, isDuplicateKeyError(err, "parent"))
}
