package database

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories insert rows without an explicit id and rely on the
// database assigning one. Every UUID primary key in the schema must
// therefore carry a gen_random_uuid() default, or the first insert
// against that table fails with a not-null violation.
func TestInitMigration_UUIDPrimaryKeysHaveDefaults(t *testing.T) {
	data, err := migrationFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)

	checked := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "UUID PRIMARY KEY") {
			continue
		}
		checked++
		// user_roles keys on user_id, which callers always supply.
		if strings.Contains(line, "REFERENCES") {
			continue
		}
		assert.Contains(t, line, "DEFAULT gen_random_uuid()", "line %q", line)
	}
	require.NoError(t, scanner.Err())

	// users, refresh_tokens, user_roles, itineraries, activities,
	// bookings, heritage_sites.
	assert.Equal(t, 7, checked, "unexpected number of UUID primary keys in init migration")
}

func TestInitMigration_HasMatchingDownMigration(t *testing.T) {
	_, err := migrationFS.ReadFile("migrations/000001_init.down.sql")
	require.NoError(t, err)
}
