package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.Event)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &DB{Bun: bunDB}
}

func newEvent(title, location string, startsAt time.Time) *models.Event {
	return &models.Event{
		ID:        uuid.NewString(),
		Title:     title,
		Location:  location,
		StartsAt:  startsAt,
		Capacity:  100,
		UnitPrice: decimal.NewFromInt(10),
		CreatedBy: "organizer-1",
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	event := newEvent("Spring Concert", "Main Auditorium", time.Now().Add(24*time.Hour))
	require.NoError(t, d.CreateEvent(ctx, event))

	got, err := d.GetEventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Concert", got.Title)
	assert.Equal(t, 100, got.Capacity)
	assert.Equal(t, 0, got.TicketsSold)

	_, err = d.GetEventByID(ctx, "no-such-event")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListUpcomingSkipsPastEvents(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	past := newEvent("Last Semester Gala", "Old Hall", now.Add(-24*time.Hour))
	soon := newEvent("Career Fair", "Student Center", now.Add(2*time.Hour))
	later := newEvent("Spring Concert", "Main Auditorium", now.Add(72*time.Hour))
	for _, e := range []*models.Event{past, later, soon} {
		require.NoError(t, d.CreateEvent(ctx, e))
	}

	list, err := d.ListUpcoming(ctx, now)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Soonest first.
	assert.Equal(t, "Career Fair", list[0].Title)
	assert.Equal(t, "Spring Concert", list[1].Title)
}

func TestSearchMatchesTitleOrLocation(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	startsAt := time.Now().Add(24 * time.Hour)

	require.NoError(t, d.CreateEvent(ctx, newEvent("Spring Concert", "Main Auditorium", startsAt)))
	require.NoError(t, d.CreateEvent(ctx, newEvent("Career Fair", "Student Center", startsAt)))
	require.NoError(t, d.CreateEvent(ctx, newEvent("Jazz Night", "Concert Hall", startsAt)))

	list, err := d.Search(ctx, "concert")
	require.NoError(t, err)
	// Matches "Spring Concert" by title and "Jazz Night" by location.
	assert.Len(t, list, 2)

	list, err = d.Search(ctx, "student")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Career Fair", list[0].Title)

	list, err = d.Search(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, list)
}
