package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohamedazzim/SympoAzzi/internal/types"
)

// --- Mock DBTX ---

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// --- Mock Rows ---

// emailLogRowData mirrors the emailLogColumns order.
type emailLogRowData struct {
	id            string
	recipient     string
	recipientName *string
	subject       string
	templateType  string
	status        string
	metadata      []byte
	errorMessage  *string
	createdAt     time.Time
}

type emailLogMockRows struct {
	data    []emailLogRowData
	idx     int
	closed  bool
	scanErr error
	errVal  error
}

func (r *emailLogMockRows) Next() bool {
	if r.closed {
		return false
	}
	r.idx++
	return r.idx <= len(r.data)
}

func (r *emailLogMockRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.data[r.idx-1]
	*dest[0].(*string) = row.id
	*dest[1].(*string) = row.recipient
	*dest[2].(**string) = row.recipientName
	*dest[3].(*string) = row.subject
	*dest[4].(*string) = row.templateType
	*dest[5].(*string) = row.status
	*dest[6].(*[]byte) = row.metadata
	*dest[7].(**string) = row.errorMessage
	*dest[8].(*time.Time) = row.createdAt
	return nil
}

func (r *emailLogMockRows) Close()                                       { r.closed = true }
func (r *emailLogMockRows) Err() error                                   { return r.errVal }
func (r *emailLogMockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *emailLogMockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *emailLogMockRows) RawValues() [][]byte                          { return nil }
func (r *emailLogMockRows) Values() ([]any, error)                       { return nil, nil }
func (r *emailLogMockRows) Conn() *pgx.Conn                              { return nil }

// --- Append Tests ---

func TestEmailLogRepository_Append_Success(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)
	ctx := context.Background()

	entry := &types.EmailLog{
		ID:            "log-1",
		Recipient:     "p@example.com",
		RecipientName: "Priya N",
		Subject:       "Registration Approved - TechFest 2026",
		TemplateType:  types.TemplateRegistrationApproved,
		Status:        types.EmailLogSent,
		Metadata:      map[string]any{"retryCount": 0},
		CreatedAt:     time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
	}

	dbtx.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	err := repo.Append(ctx, entry)
	require.NoError(t, err)
	dbtx.AssertExpectations(t)

	// The INSERT carries the entry fields in column order.
	call := dbtx.Calls[0]
	args := call.Arguments.Get(2).([]any)
	assert.Equal(t, "log-1", args[0])
	assert.Equal(t, "p@example.com", args[1])
	assert.Equal(t, "registration_approved", args[4])
	assert.Equal(t, "sent", args[5])
}

func TestEmailLogRepository_Append_DBError(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)
	ctx := context.Background()

	dbtx.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("connection refused"))

	err := repo.Append(ctx, &types.EmailLog{ID: "log-1", Status: types.EmailLogFailed})
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

// --- List Tests ---

func TestEmailLogRepository_List_Success(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)
	ctx := context.Background()

	name := "Priya N"
	rows := &emailLogMockRows{data: []emailLogRowData{
		{
			id:            "log-1",
			recipient:     "p@example.com",
			recipientName: &name,
			subject:       "Registration Approved - TechFest 2026",
			templateType:  "registration_approved",
			status:        "sent",
			metadata:      []byte(`{"retryCount":1}`),
			createdAt:     time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		},
	}}

	dbtx.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	logs, err := repo.List(ctx, types.EmailLogSent, 50, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "log-1", logs[0].ID)
	assert.Equal(t, "Priya N", logs[0].RecipientName)
	assert.Equal(t, types.TemplateRegistrationApproved, logs[0].TemplateType)
	assert.Equal(t, types.EmailLogSent, logs[0].Status)
	assert.EqualValues(t, 1, logs[0].Metadata["retryCount"])
	assert.True(t, rows.closed)
}

func TestEmailLogRepository_List_QueryError(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)
	ctx := context.Background()

	dbtx.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := repo.List(ctx, "", 50, 0)
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

// --- DeleteByIDs Tests ---

func TestEmailLogRepository_DeleteByIDs(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)
	ctx := context.Background()

	dbtx.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("DELETE 2"), nil)

	deleted, err := repo.DeleteByIDs(ctx, []string{"log-1", "log-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestEmailLogRepository_DeleteByIDs_Empty(t *testing.T) {
	dbtx := new(mockDBTX)
	repo := NewEmailLogRepository(dbtx)

	deleted, err := repo.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	dbtx.AssertNotCalled(t, "Exec")
}
