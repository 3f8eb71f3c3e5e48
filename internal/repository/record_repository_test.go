package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{
			"unique violation becomes sentinel",
			&pgconn.PgError{Code: "23505", ConstraintName: "uq_records_roll_event"},
			ErrDuplicateRollNo,
		},
		{
			"wrapped unique violation becomes sentinel",
			fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			ErrDuplicateRollNo,
		},
		{
			"other pg error passes through",
			&pgconn.PgError{Code: "23503"},
			nil,
		},
		{"plain error passes through", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDuplicate(tt.err)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
