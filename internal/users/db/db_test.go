package db

import (
	"context"
	"database/sql"
	"os"
	"strings"
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
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.User)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &DB{Bun: bunDB}
}

// setupMigratedDB builds the schema from the real migration DDL instead of
// the model tags, so a column drift between the two fails here instead of in
// production.
func setupMigratedDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ddl, err := os.ReadFile("../../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := bunDB.Exec(stmt)
		require.NoError(t, err, "migration statement failed:\n%s", stmt)
	}

	t.Cleanup(func() { bunDB.Close() })
	return bunDB
}

func TestModelsMatchMigratedSchema(t *testing.T) {
	bunDB := setupMigratedDB(t)
	ctx := context.Background()
	now := time.Now()

	d := &DB{Bun: bunDB}
	require.NoError(t, d.CreateUser(ctx, &models.User{
		ID:        "staff-1",
		Email:     "staff@bearcat.edu",
		FullName:  "Door Staff",
		Role:      models.RoleStaff,
		CreatedAt: now,
	}))

	got, err := d.GetUserByID(ctx, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "Door Staff", got.FullName)
	assert.True(t, got.CanCheckIn())

	// The other models ride the same DDL; a round trip pins every column.
	event := &models.Event{
		ID:        uuid.NewString(),
		Title:     "Spring Concert",
		Location:  "Main Auditorium",
		StartsAt:  now.Add(24 * time.Hour),
		Capacity:  100,
		UnitPrice: decimal.NewFromInt(15),
		CreatedBy: "staff-1",
		CreatedAt: now,
	}
	_, err = bunDB.NewInsert().Model(event).Exec(ctx)
	require.NoError(t, err)

	ticket := &models.Ticket{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		UserID:      "staff-1",
		CheckInCode: "AB12CD",
		ScanPayload: event.ID + ":AB12CD",
		QRCode:      []byte("png"),
		PricePaid:   decimal.NewFromInt(15),
		Status:      models.TicketStatusActive,
		PurchasedAt: now,
	}
	_, err = bunDB.NewInsert().Model(ticket).Exec(ctx)
	require.NoError(t, err)

	email := &models.EmailLog{
		ID:        uuid.NewString(),
		Recipient: "staff@bearcat.edu",
		Subject:   "Ticket Confirmation - Spring Concert",
		Status:    models.EmailStatusPending,
		CreatedAt: now,
	}
	_, err = bunDB.NewInsert().Model(email).Exec(ctx)
	require.NoError(t, err)

	var loaded models.Ticket
	require.NoError(t, bunDB.NewSelect().Model(&loaded).Where("id = ?", ticket.ID).Scan(ctx))
	assert.Equal(t, "AB12CD", loaded.CheckInCode)
}

func TestCreateAndGetUser(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:        "staff-1",
		Email:     "staff@bearcat.edu",
		FullName:  "Door Staff",
		Role:      models.RoleStaff,
		CreatedAt: time.Now(),
	}
	require.NoError(t, d.CreateUser(ctx, user))

	got, err := d.GetUserByID(ctx, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, got.Role)
	assert.True(t, got.CanCheckIn())

	_, err = d.GetUserByID(ctx, "nobody")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRoleChangeIsVisibleOnNextRead(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:        "u1",
		Email:     "u1@bearcat.edu",
		FullName:  "Former Staff",
		Role:      models.RoleStaff,
		CreatedAt: time.Now(),
	}
	require.NoError(t, d.CreateUser(ctx, user))

	got, err := d.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.CanCheckIn())

	_, err = d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("role = ?", models.RoleUser).
		Where("id = ?", "u1").
		Exec(ctx)
	require.NoError(t, err)

	// Nothing is cached: the demotion takes effect on the very next read.
	got, err = d.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.CanCheckIn())
}
