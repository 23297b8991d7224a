package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthvault-ledger/internal/domain/account"
)

func testClient() *account.Client {
	now := time.Now()
	return &account.Client{
		ID:              uuid.New(),
		Email:           "investor@wealthvault.test",
		HashedPassword:  "$2a$10$hash",
		Name:            "Asha Mehta",
		Phone:           "+911234567890",
		Role:            "client",
		TotalInvestment: 300000,
		TotalWithdrawn:  0,
		TotalInterest:   12000,
		TotalBalance:    300000,
		CreatedAt:       now,
		UpdatedAt:       now,
		BankDetails: &account.BankDetails{
			ID:            uuid.New(),
			BankName:      "HDFC Bank",
			AccountNumber: "50100123456789",
			BankBranch:    "Koramangala",
			IFSCCode:      "HDFC0000123",
		},
	}
}

func clientJoinedRows(client *account.Client) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "email", "hashed_password", "name", "phone", "role",
		"total_investment", "total_withdrawn", "total_interest", "total_balance",
		"created_at", "updated_at",
		"bank_id", "bank_name", "account_number", "bank_branch", "ifsc_code",
	})
	if client.BankDetails != nil {
		bank := client.BankDetails
		return rows.AddRow(
			client.ID, client.Email, client.HashedPassword, client.Name, client.Phone, client.Role,
			client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
			client.CreatedAt, client.UpdatedAt,
			&bank.ID, &bank.BankName, &bank.AccountNumber, &bank.BankBranch, &bank.IFSCCode,
		)
	}
	return rows.AddRow(
		client.ID, client.Email, client.HashedPassword, client.Name, client.Phone, client.Role,
		client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
		client.CreatedAt, client.UpdatedAt,
		nil, nil, nil, nil, nil,
	)
}

func TestClientRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}

	insertClient := `INSERT INTO clients`
	insertBank := `INSERT INTO bank_details`

	t.Run("success with bank details", func(t *testing.T) {
		client := testClient()

		mock.ExpectExec(insertClient).
			WithArgs(client.ID, client.Email, client.HashedPassword, client.Name, client.Phone, client.Role,
				client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
				client.CreatedAt, client.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertBank).
			WithArgs(client.BankDetails.ID, client.ID, client.BankDetails.BankName, client.BankDetails.AccountNumber,
				client.BankDetails.BankBranch, client.BankDetails.IFSCCode).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, client)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		client := testClient()

		mock.ExpectExec(insertClient).
			WithArgs(client.ID, client.Email, client.HashedPassword, client.Name, client.Phone, client.Role,
				client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
				client.CreatedAt, client.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, client)
		var dupErr account.ErrDuplicateEmail
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, client.Email, dupErr.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `SELECT(.|\n)*FROM clients c\s+LEFT JOIN bank_details b ON b.client_id = c.id\s+WHERE c.id = \$1`

	t.Run("found with bank details", func(t *testing.T) {
		client := testClient()
		mock.ExpectQuery(query).WithArgs(client.ID).WillReturnRows(clientJoinedRows(client))

		got, err := repo.GetByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client.Email, got.Email)
		assert.Equal(t, client.TotalBalance, got.TotalBalance)
		require.NotNil(t, got.BankDetails)
		assert.Equal(t, "HDFC0000123", got.BankDetails.IFSCCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("found without bank details", func(t *testing.T) {
		client := testClient()
		client.BankDetails = nil
		mock.ExpectQuery(query).WithArgs(client.ID).WillReturnRows(clientJoinedRows(client))

		got, err := repo.GetByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Nil(t, got.BankDetails)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(query).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetByID(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, account.ErrClientNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `SELECT(.|\n)*FROM clients c\s+LEFT JOIN bank_details b ON b.client_id = c.id\s+WHERE c.email = \$1`

	t.Run("found", func(t *testing.T) {
		client := testClient()
		mock.ExpectQuery(query).WithArgs(client.Email).WillReturnRows(clientJoinedRows(client))

		got, err := repo.GetByEmail(ctx, client.Email)
		require.NoError(t, err)
		assert.Equal(t, client.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("missing@wealthvault.test").WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetByEmail(ctx, "missing@wealthvault.test")
		assert.Nil(t, got)
		var notFound account.ErrClientNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing@wealthvault.test", notFound.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `UPDATE clients`

	t.Run("success", func(t *testing.T) {
		client := testClient()
		mock.ExpectExec(query).
			WithArgs(client.Email, client.Name, client.Phone,
				client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
				client.UpdatedAt, client.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, client)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		client := testClient()
		mock.ExpectExec(query).
			WithArgs(client.Email, client.Name, client.Phone,
				client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
				client.UpdatedAt, client.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, client)
		assert.ErrorIs(t, err, account.ErrClientNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `UPDATE clients\s+SET email = \$1, name = \$2, phone = \$3, updated_at = \$4\s+WHERE id = \$5`

	t.Run("writes contact columns only", func(t *testing.T) {
		client := testClient()
		mock.ExpectExec(query).
			WithArgs(client.Email, client.Name, client.Phone, client.UpdatedAt, client.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateProfile(ctx, client)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		client := testClient()
		mock.ExpectExec(query).
			WithArgs(client.Email, client.Name, client.Phone, client.UpdatedAt, client.ID).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.UpdateProfile(ctx, client)
		var dupErr account.ErrDuplicateEmail
		assert.ErrorAs(t, err, &dupErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		client := testClient()
		mock.ExpectExec(query).
			WithArgs(client.Email, client.Name, client.Phone, client.UpdatedAt, client.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateProfile(ctx, client)
		assert.ErrorIs(t, err, account.ErrClientNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_UpdateBankDetails(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	clientID := uuid.New()
	bank := &account.BankDetails{
		ID:            uuid.New(),
		BankName:      "ICICI Bank",
		AccountNumber: "000401234567",
		BankBranch:    "Indiranagar",
		IFSCCode:      "ICIC0000004",
	}

	t.Run("updates existing row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bank_details`).
			WithArgs(bank.BankName, bank.AccountNumber, bank.BankBranch, bank.IFSCCode, clientID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateBankDetails(ctx, clientID, bank)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts when no row exists", func(t *testing.T) {
		mock.ExpectExec(`UPDATE bank_details`).
			WithArgs(bank.BankName, bank.AccountNumber, bank.BankBranch, bank.IFSCCode, clientID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectExec(`INSERT INTO bank_details`).
			WithArgs(bank.ID, clientID, bank.BankName, bank.AccountNumber, bank.BankBranch, bank.IFSCCode).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.UpdateBankDetails(ctx, clientID, bank)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `DELETE FROM clients WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, account.ErrClientNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `SELECT(.|\n)*FROM clients\s+WHERE id = \$1\s+FOR UPDATE`

	t.Run("success", func(t *testing.T) {
		client := testClient()
		rows := pgxmock.NewRows([]string{
			"id", "email", "hashed_password", "name", "phone", "role",
			"total_investment", "total_withdrawn", "total_interest", "total_balance",
			"created_at", "updated_at",
		}).AddRow(
			client.ID, client.Email, client.HashedPassword, client.Name, client.Phone, client.Role,
			client.TotalInvestment, client.TotalWithdrawn, client.TotalInterest, client.TotalBalance,
			client.CreatedAt, client.UpdatedAt,
		)
		mock.ExpectQuery(query).WithArgs(client.ID).WillReturnRows(rows)

		got, err := repo.LockForUpdate(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TotalInvestment, got.TotalInvestment)
		assert.Nil(t, got.BankDetails)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(query).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		got, err := repo.LockForUpdate(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, account.ErrClientNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_Lockout(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &ClientRepository{querier: mock, logger: logger}
	query := `SELECT(.|\n)*FROM clients\s+WHERE id = \$1\s+FOR UPDATE`

	t.Run("lock timeout surfaces as error", func(t *testing.T) {
		id := uuid.New()
		lockErr := &pgconn.PgError{Code: "55P03"}
		mock.ExpectQuery(query).WithArgs(id).WillReturnError(lockErr)

		got, err := repo.LockForUpdate(ctx, id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, lockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
