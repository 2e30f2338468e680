package period_test

import (
	"testing"
	"time"

	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followers(days ...model.Date) []*model.FollowerRecord {
	rows := make([]*model.FollowerRecord, 0, len(days))
	for i, d := range days {
		rows = append(rows, &model.FollowerRecord{Date: d, TotalFollowers: int64(i + 1)})
	}
	return rows
}

func TestParseTag(t *testing.T) {
	cases := map[string]period.Tag{
		"":                period.Lifetime,
		"ltd":             period.Lifetime,
		"YTD":             period.YearToDate,
		"qtd":             period.QuarterToDate,
		"Month_To_Date":   period.MonthToDate,
		"QUARTER_TO_DATE": period.QuarterToDate,
	}
	for in, want := range cases {
		got, err := period.ParseTag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := period.ParseTag("WTD")
	assert.Error(t, err)
}

func TestLowerBound(t *testing.T) {
	ref := model.NewDate(2024, time.August, 15)

	t.Run("quarter start", func(t *testing.T) {
		got, ok := period.LowerBound(period.QuarterToDate, ref)
		require.True(t, ok)
		assert.Equal(t, "2024-07-01", got.String())
	})

	t.Run("year and month", func(t *testing.T) {
		got, ok := period.LowerBound(period.YearToDate, ref)
		require.True(t, ok)
		assert.Equal(t, "2024-01-01", got.String())

		got, ok = period.LowerBound(period.MonthToDate, ref)
		require.True(t, ok)
		assert.Equal(t, "2024-08-01", got.String())
	})

	t.Run("lifetime has no bound", func(t *testing.T) {
		_, ok := period.LowerBound(period.Lifetime, ref)
		assert.False(t, ok)
	})

	t.Run("every month maps to its quarter", func(t *testing.T) {
		want := []time.Month{1, 1, 1, 4, 4, 4, 7, 7, 7, 10, 10, 10}
		for m := time.January; m <= time.December; m++ {
			got, _ := period.LowerBound(period.QuarterToDate, model.NewDate(2023, m, 28))
			assert.Equal(t, want[m-1], got.Month(), m.String())
			assert.Equal(t, 1, got.Day())
		}
	})
}

func TestFilterQuarterBoundary(t *testing.T) {
	rows := followers(
		model.NewDate(2023, time.December, 31),
		model.NewDate(2024, time.January, 1),
		model.NewDate(2024, time.January, 3),
		model.NewDate(2024, time.January, 5),
	)

	// 一月五日的季度起点就是一月一日
	got := period.Filter(rows, period.QuarterToDate, model.NewDate(2024, time.January, 5))
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-01", got[0].Date.String())
}

func TestFilterMonotonic(t *testing.T) {
	var days []model.Date
	for d := model.NewDate(2023, time.November, 1); d.Before(model.NewDate(2024, time.September, 1)); d = d.AddDays(9) {
		days = append(days, d)
	}
	rows := followers(days...)
	ref := model.NewDate(2024, time.August, 15)

	ltd := period.Filter(rows, period.Lifetime, ref)
	ytd := period.Filter(rows, period.YearToDate, ref)
	qtd := period.Filter(rows, period.QuarterToDate, ref)
	mtd := period.Filter(rows, period.MonthToDate, ref)

	assert.Len(t, ltd, len(rows))
	assert.GreaterOrEqual(t, len(ltd), len(ytd))
	assert.GreaterOrEqual(t, len(ytd), len(qtd))
	assert.GreaterOrEqual(t, len(qtd), len(mtd))
	assert.NotEmpty(t, mtd)

	// 每个子区间都是上级区间的子集
	inYTD := map[*model.FollowerRecord]bool{}
	for _, r := range ytd {
		inYTD[r] = true
	}
	for _, r := range qtd {
		assert.True(t, inYTD[r])
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	rows := followers(model.NewDate(2024, time.March, 1), model.NewDate(2024, time.August, 2))
	got := period.Filter(rows, period.MonthToDate, model.NewDate(2024, time.August, 15))
	require.Len(t, got, 1)

	got[0] = nil
	assert.NotNil(t, rows[1])
}

func TestFixedClock(t *testing.T) {
	c := period.FixedClock(model.NewDate(2024, time.May, 9))
	assert.Equal(t, "2024-05-09", c.Today().String())
	assert.Equal(t, model.NewDate(2024, time.May, 9).Time(), c.Now())
}

func TestSystemClockUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, loc, period.SystemClock{Location: loc}.Now().Location())
}
