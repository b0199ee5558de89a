package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/model"
)

var loginColumns = []string{"id", "ipaddr", "account_id", "created", "modified"}

func newTestAccountService() *AccountService {
	svc := NewAccountService()
	svc.now = fixedClock
	return svc
}

func TestAccountGet(t *testing.T) {
	id := uuid.New()
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account WHERE id").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "mactto", "salt:digest", "Mactto Kim", "lifts daily", fixedNow, nil))

	resp, err := newTestAccountService().Get(context.Background(), sc, id)

	require.NoError(t, err)
	assert.Equal(t, model.AccountResponse{
		ID:           id,
		Username:     "mactto",
		Fullname:     "Mactto Kim",
		Introduction: "lifts daily",
		Created:      fixedNow,
	}, resp)
}

func TestAccountGet_NotFound(t *testing.T) {
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account WHERE id").WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := newTestAccountService().Get(context.Background(), sc, uuid.New())

	logicErr := requireLogicCode(t, err, apperr.ModelNotFound)
	assert.Equal(t, apperr.Detail{"Account": {"id"}}, logicErr.Detail)
}

func TestAccountGetByUsername_NotFound(t *testing.T) {
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account WHERE username").WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := newTestAccountService().GetByUsername(context.Background(), sc, "ghost")

	logicErr := requireLogicCode(t, err, apperr.ModelNotFound)
	assert.Equal(t, apperr.Detail{"Account": {"username"}}, logicErr.Detail)
}

func TestAccountPatch_OnlyPresentFields(t *testing.T) {
	id := uuid.New()
	sc, mock := newTestScope(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE account").
		WithArgs(id, "New Name", nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := newTestAccountService().Patch(context.Background(), sc, id, model.AccountPatchRequest{
		Fullname: model.Some("New Name"),
	})

	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
}

func TestAccountPatch_NothingPresentSkipsUpdate(t *testing.T) {
	id := uuid.New()
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account WHERE id").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(id.String(), "mactto", "salt:digest", "Mactto Kim", "", fixedNow, nil))

	resp, err := newTestAccountService().Patch(context.Background(), sc, id, model.AccountPatchRequest{})

	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
}

func TestAccountPatch_MissingAccount(t *testing.T) {
	sc, mock := newTestScope(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE account").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := newTestAccountService().Patch(context.Background(), sc, uuid.New(), model.AccountPatchRequest{
		Introduction: model.Some(""),
	})

	requireLogicCode(t, err, apperr.ModelNotFound)
}

func TestAccountGetLogin_OtherAccountIsNotFound(t *testing.T) {
	accountID, loginID := uuid.New(), uuid.New()
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account_login").WithArgs(loginID, accountID).
		WillReturnRows(sqlmock.NewRows(loginColumns))

	_, err := newTestAccountService().GetLogin(context.Background(), sc, accountID, loginID)

	logicErr := requireLogicCode(t, err, apperr.ModelNotFound)
	assert.Equal(t, apperr.Detail{"AccountLogin": {"id"}}, logicErr.Detail)
}

func TestAccountListLogins(t *testing.T) {
	accountID := uuid.New()
	first, second := uuid.New(), uuid.New()

	tests := []struct {
		sortBy string
		order  string
	}{
		{"-created", "ORDER BY created DESC"},
		{"created", "ORDER BY created ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			sc, mock := newTestScope(t)
			mock.ExpectQuery(tt.order).WithArgs(accountID, 10, 2).
				WillReturnRows(sqlmock.NewRows(loginColumns).
					AddRow(first.String(), "10.0.0.1", accountID.String(), fixedNow, nil).
					AddRow(second.String(), "10.0.0.2", accountID.String(), fixedNow, nil))

			resp, err := newTestAccountService().ListLogins(context.Background(), sc, accountID, model.AccountLoginListRequest{
				SortBy: tt.sortBy,
				Skip:   10,
				Count:  2,
			})

			require.NoError(t, err)
			require.Len(t, resp, 2)
			assert.Equal(t, first, resp[0].ID)
			assert.Equal(t, "10.0.0.2", resp[1].IPAddr)
		})
	}
}

func TestAccountListLogins_EmptyIsNotNil(t *testing.T) {
	sc, mock := newTestScope(t)
	mock.ExpectQuery("FROM account_login").WillReturnRows(sqlmock.NewRows(loginColumns))

	resp, err := newTestAccountService().ListLogins(context.Background(), sc, uuid.New(), model.AccountLoginListRequest{
		SortBy: "-created",
		Count:  10,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}
