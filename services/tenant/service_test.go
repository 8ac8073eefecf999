package tenant

import (
	"context"
	"errors"
	"testing"

	"rental-booking/apperror"
	"rental-booking/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSelectable_ExcludesBlacklisted(t *testing.T) {
	ctx := context.Background()
	s := NewService(dbtest.Open(t))

	amani, err := s.Create(ctx, CreateInput{FullName: "Amani Kabila", Phone: "+243800000001"})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateInput{FullName: "Bisimwa Kito", Phone: "+243800000002"})
	require.NoError(t, err)

	_, err = s.SetBlacklisted(ctx, amani.ID, true, "")
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))

	banned, err := s.SetBlacklisted(ctx, amani.ID, true, "unpaid stay")
	require.NoError(t, err)
	require.NotNil(t, banned.BlacklistReason)

	selectable, err := s.ListSelectable(ctx, "")
	require.NoError(t, err)
	require.Len(t, selectable, 1)
	assert.Equal(t, "Bisimwa Kito", selectable[0].FullName)

	found, err := s.ListSelectable(ctx, "kito")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	cleared, err := s.SetBlacklisted(ctx, amani.ID, false, "")
	require.NoError(t, err)
	assert.Nil(t, cleared.BlacklistReason)
	selectable, err = s.ListSelectable(ctx, "")
	require.NoError(t, err)
	assert.Len(t, selectable, 2)
}

func TestCreate_RequiresNameAndPhone(t *testing.T) {
	s := NewService(dbtest.Open(t))
	_, err := s.Create(context.Background(), CreateInput{Phone: "+243800000001"})
	var verr *apperror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "full_name", verr.Field)

	_, err = s.SetBlacklisted(context.Background(), 42, true, "x")
	assert.True(t, apperror.IsNotFound(err))
}
