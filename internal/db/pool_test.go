package db

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBPoolParams_ConnString(t *testing.T) {
	testCases := []struct {
		name   string
		params NewDBPoolParams
		want   string
	}{
		{
			name:   "DefaultUser",
			params: NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "weighttrend"},
			want:   "postgres://postgres@localhost:5432/weighttrend",
		},
		{
			name:   "CustomUser",
			params: NewDBPoolParams{DBHost: "db.internal", DBPort: "6432", DBName: "weights", DBUser: "reader"},
			want:   "postgres://reader@db.internal:6432/weights",
		},
		{
			name:   "IPv6Host",
			params: NewDBPoolParams{DBHost: "::1", DBPort: "5432", DBName: "weighttrend"},
			want:   "postgres://postgres@[::1]:5432/weighttrend",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.ConnString())

			cfg, err := pgxpool.ParseConfig(tc.params.ConnString())
			require.NoError(t, err)
			assert.Equal(t, tc.params.DBName, cfg.ConnConfig.Database)
		})
	}
}
