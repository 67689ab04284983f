package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/actiontracker/tracker/modules/tracker/domain/entities/actionitem"
	"github.com/actiontracker/tracker/modules/tracker/domain/entities/vendor"
	"github.com/actiontracker/tracker/pkg/composables"
)

func TestVendorRepository_GetByPrefix_MapsRow(t *testing.T) {
	now := time.Now()
	tx := &stubTx{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			require.Contains(t, query, "FROM vendors WHERE prefix = $1")
			require.Equal(t, "AD", args[0])
			return &stubRows{data: [][]any{
				{1, "AD", "Acme Devices", nullString("hardware"), 17, now},
			}}, nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	v, err := NewVendorRepository().GetByPrefix(ctx, "AD")
	require.NoError(t, err)
	require.Equal(t, 1, v.ID)
	require.Equal(t, "AD", v.Prefix)
	require.Equal(t, 17, v.NextNumber)
	require.NotNil(t, v.Description)
	require.Equal(t, "hardware", *v.Description)
}

func TestVendorRepository_GetByPrefix_NotFound(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{}, nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	_, err := NewVendorRepository().GetByPrefix(ctx, "ZZ")
	require.ErrorIs(t, err, vendor.ErrNotFound)
}

func TestVendorRepository_AdvanceNextNumber_OnlyMovesForward(t *testing.T) {
	var gotSQL string
	var gotArgs []any
	tx := &stubTx{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			gotSQL = query
			gotArgs = args
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	advanced, err := NewVendorRepository().AdvanceNextNumber(ctx, 3, 11)
	require.NoError(t, err)
	require.False(t, advanced)
	require.Contains(t, gotSQL, "next_number < $2")
	require.Equal(t, []any{3, 11}, gotArgs)
}

func TestUserRepository_GetAll_OrdersByID(t *testing.T) {
	now := time.Now()
	tx := &stubTx{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			require.Contains(t, query, "ORDER BY id ASC")
			return &stubRows{data: [][]any{
				{1, "mike@example.com", "Mike Fitzgerald", nullString("MF"), now},
				{2, "jane@example.com", "Jane Smith", sql.NullString{}, now},
			}}, nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	users, err := NewUserRepository().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "MF", users[0].InitialsOrEmpty())
	require.Nil(t, users[1].Initials)
}

func TestActionItemRepository_Create_PassesCivilDates(t *testing.T) {
	due := time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC)
	var gotArgs []any
	tx := &stubTx{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, query, "INSERT INTO action_items")
			gotArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	err := NewActionItemRepository().Create(ctx, actionitem.ActionItem{
		ID:          "AD-001",
		VendorID:    1,
		Number:      1,
		Title:       "Replace fan",
		CreateDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedByID: 1,
		DueDate:     &due,
		OwnerID:     2,
		Priority:    actionitem.PriorityHigh,
		CategoryID:  5,
	})
	require.NoError(t, err)
	require.Len(t, gotArgs, 11)
	require.Equal(t, pgtype.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true}, gotArgs[5])
	require.Equal(t, pgtype.Date{Time: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Valid: true}, gotArgs[7])
	require.Equal(t, "High", gotArgs[9])
}

func TestActionItemRepository_CreateWithoutDueDate(t *testing.T) {
	var gotArgs []any
	tx := &stubTx{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	require.NoError(t, NewActionItemRepository().Create(ctx, actionitem.ActionItem{ID: "AD-002", CreateDate: time.Now()}))
	require.Equal(t, pgtype.Date{}, gotArgs[7])
}

func TestActionItemRepository_CurrentStatus_BreaksTiesByID(t *testing.T) {
	changedAt := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			require.Contains(t, query, "ORDER BY changed_at DESC, id DESC")
			require.Equal(t, "AD-001", args[0])
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*int64) = 9
				*dest[1].(*string) = "AD-001"
				*dest[2].(*string) = "Complete"
				*dest[3].(*int) = 1
				*dest[4].(*time.Time) = changedAt
				*dest[5].(*sql.NullString) = sql.NullString{}
				return nil
			}}
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	entry, err := NewActionItemRepository().CurrentStatus(ctx, "AD-001")
	require.NoError(t, err)
	require.Equal(t, int64(9), entry.ID)
	require.Equal(t, actionitem.StatusComplete, entry.Status)
	require.Nil(t, entry.Comment)
}

func TestActionItemRepository_GetByID_NotFound(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	_, err := NewActionItemRepository().GetByID(ctx, "AD-404")
	require.ErrorIs(t, err, actionitem.ErrNotFound)
}

func TestActionItemRepository_Exists_WrapsDriverError(t *testing.T) {
	boom := errors.New("connection reset")
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return stubRow{scan: func(dest ...any) error { return boom }}
		},
	}
	ctx := composables.WithTx(context.Background(), tx)

	_, err := NewActionItemRepository().Exists(ctx, "AD-001")
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "AD-001")
}

func TestRepositories_RequireTxOrPool(t *testing.T) {
	_, err := NewUserRepository().GetAll(context.Background())
	require.ErrorIs(t, err, composables.ErrNoPool)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

type stubTx struct {
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
}

func (s *stubTx) Exec(ctx context.Context, query string, arguments ...any) (pgconn.CommandTag, error) {
	if s.execFunc == nil {
		return pgconn.CommandTag{}, errors.New("exec not implemented")
	}
	return s.execFunc(ctx, query, arguments...)
}

func (s *stubTx) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.queryFunc(ctx, query, args...)
}

func (s *stubTx) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
	}
	return s.queryRowFunc(ctx, query, args...)
}

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		switch v := target.(type) {
		case *int:
			*v = row[i].(int)
		case *int64:
			*v = row[i].(int64)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		case *sql.NullString:
			*v = row[i].(sql.NullString)
		case *pgtype.Date:
			*v = row[i].(pgtype.Date)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}
	return nil
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Err() error          { return r.err }
func (r *stubRows) Close()              {}
func (r *stubRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("scan not implemented")
	}
	return r.scan(dest...)
}
