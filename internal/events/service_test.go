package events

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcat-ticketing/internal/apperr"
	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/models"
)

type fakeEventDB struct {
	created  []*models.Event
	events   map[string]*models.Event
	upcoming []models.Event
	searched []models.Event
}

func (f *fakeEventDB) CreateEvent(_ context.Context, event *models.Event) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeEventDB) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "Event not found")
}

func (f *fakeEventDB) ListUpcoming(context.Context, time.Time) ([]models.Event, error) {
	return f.upcoming, nil
}

func (f *fakeEventDB) Search(context.Context, string) ([]models.Event, error) {
	return f.searched, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.New(apperr.KindNotFound, "User not found")
}

func setupService() (*EventService, *fakeEventDB) {
	db := &fakeEventDB{events: map[string]*models.Event{}}
	users := &fakeUserStore{users: map[string]*models.User{
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin},
		"staff-1": {ID: "staff-1", Role: models.RoleStaff},
		"user-1":  {ID: "user-1", Role: models.RoleUser},
	}}
	return NewEventService(db, users, &logger.Logger{}), db
}

func validRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:     "Spring Concert",
		Location:  "Main Auditorium",
		StartsAt:  time.Now().Add(72 * time.Hour),
		Capacity:  200,
		UnitPrice: decimal.NewFromInt(15),
	}
}

func TestCreateEvent(t *testing.T) {
	svc, db := setupService()

	event, err := svc.CreateEvent(context.Background(), "admin-1", validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Spring Concert", event.Title)
	assert.Equal(t, 0, event.TicketsSold)
	assert.Equal(t, "admin-1", event.CreatedBy)
	require.Len(t, db.created, 1)
}

func TestCreateEventRequiresAdmin(t *testing.T) {
	svc, db := setupService()

	for _, caller := range []string{"staff-1", "user-1", "nobody", ""} {
		_, err := svc.CreateEvent(context.Background(), caller, validRequest())
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err), "caller %q", caller)
	}
	assert.Empty(t, db.created)
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	req := validRequest()
	req.Title = "   "
	_, err := svc.CreateEvent(ctx, "admin-1", req)
	assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))

	req = validRequest()
	req.Location = ""
	_, err = svc.CreateEvent(ctx, "admin-1", req)
	assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))

	req = validRequest()
	req.StartsAt = time.Time{}
	_, err = svc.CreateEvent(ctx, "admin-1", req)
	assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))

	req = validRequest()
	req.Capacity = 0
	_, err = svc.CreateEvent(ctx, "admin-1", req)
	assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))

	req = validRequest()
	req.UnitPrice = decimal.NewFromInt(-1)
	_, err = svc.CreateEvent(ctx, "admin-1", req)
	assert.Equal(t, apperr.KindInvalidFormat, apperr.KindOf(err))
}

func TestSearchFallsBackToUpcoming(t *testing.T) {
	svc, db := setupService()
	db.upcoming = []models.Event{{ID: "e1"}}
	db.searched = []models.Event{{ID: "e2"}}

	list, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e1", list[0].ID)

	list, err = svc.Search(context.Background(), "concert")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e2", list[0].ID)
}
