package util_test

import (
	"testing"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidateDTO(t *testing.T) {
	t.Run("missing numeric field", func(t *testing.T) {
		err := util.ValidateDTO(&dto.FollowerEntryDTO{Date: "2024-01-01"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "total_followers")
	})

	t.Run("zero is a valid count", func(t *testing.T) {
		err := util.ValidateDTO(&dto.FollowerEntryDTO{Date: "2024-01-01", TotalFollowers: ptr(int64(0))})
		assert.NoError(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		err := util.ValidateDTO(&dto.FollowerEntryDTO{Date: "01/02/2024", TotalFollowers: ptr(int64(1))})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "datetime")
	})

	t.Run("rate above one", func(t *testing.T) {
		err := util.ValidateDTO(&dto.ContentEntryDTO{
			Date:              "2024-01-01",
			UniqueImpressions: ptr(int64(1)),
			ClicksTotal:       ptr(int64(1)),
			ReactionsTotal:    ptr(int64(1)),
			RepostsTotal:      ptr(int64(1)),
			EngagementRate:    ptr(1.5),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engagement_rate")
	})
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t,
		[]string{"date", "total_unique_visitors", "total_page_views"},
		util.RequiredFields(&dto.VisitorEntryDTO{}),
	)
	assert.NotContains(t, util.RequiredFields(&dto.PostEntryDTO{}), "post_link")
}
