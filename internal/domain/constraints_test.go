package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCheckEventTimes(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     *string
		wantErr bool
	}{
		{"no end time", "10:00", nil, false},
		{"empty end time", "10:00", strPtr(""), false},
		{"end after start", "10:00", strPtr("11:30"), false},
		{"end equals start", "10:00", strPtr("10:00"), true},
		{"end before start", "18:00", strPtr("09:15:00"), true},
		{"seconds precision", "10:00:00", strPtr("10:00:01"), false},
		{"unparseable left to store", "ten", strPtr("11:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEventTimes(tt.start, tt.end)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCheckViolation)
			assert.Equal(t, KindCheck, KindOf(err))
			var se *StoreError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, ConstraintEventEndAfterStart, se.Constraint)
		})
	}
}

func TestKindForSQLState(t *testing.T) {
	assert.Equal(t, KindNotNull, KindForSQLState("23502"))
	assert.Equal(t, KindForeignKey, KindForSQLState("23503"))
	assert.Equal(t, KindUnique, KindForSQLState("23505"))
	assert.Equal(t, KindCheck, KindForSQLState("23514"))
	assert.Equal(t, KindInvalidInput, KindForSQLState("22P02"))
	assert.Equal(t, KindInvalidInput, KindForSQLState("22001"))
	assert.Equal(t, KindUnknown, KindForSQLState("40001"))
}

func TestStoreError_Is(t *testing.T) {
	driverErr := errors.New("duplicate key value violates unique constraint")
	err := fmt.Errorf("add invitations: %w", &StoreError{
		Kind:       KindUnique,
		Code:       "23505",
		Constraint: ConstraintInvitationUnique,
		Err:        driverErr,
	})

	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.ErrorIs(t, err, &StoreError{Kind: KindUnique, Constraint: ConstraintInvitationUnique})
	assert.NotErrorIs(t, err, &StoreError{Kind: KindUnique, Constraint: ConstraintSquadUnique})
	assert.NotErrorIs(t, err, ErrForeignKeyViolation)
	assert.ErrorIs(t, err, driverErr)
	assert.Equal(t, KindUnique, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(driverErr))
	assert.Contains(t, err.Error(), "unique violation (event_invitations_event_id_user_id_key)")
}
