package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"
)

var testServerIp = pqtype.Inet{
	IPNet: net.IPNet{IP: net.IPv4(10, 0, 0, 7), Mask: net.CIDRMask(32, 32)},
	Valid: true,
}

func newTestDbManager(t *testing.T) (DbManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return NewDbManager(New(db)), mock
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)
	return ctx
}

func TestAnalyticsCounters(t *testing.T) {
	dbm, mock := newTestDbManager(t)
	ctx := testCtx(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, games_created)")).
		WithArgs(testServerIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, rematch_called)")).
		WithArgs(testServerIp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(testServerIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(1))
	mock.ExpectQuery(`SELECT rematch_called FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(testServerIp).
		WillReturnRows(sqlmock.NewRows([]string{"rematch_called"}).AddRow(1))

	if err := dbm.Analytics.IncrementGamesCreatedCount(ctx, testServerIp); err != nil {
		t.Fatal(err)
	}
	if err := dbm.Analytics.IncrementRematchCalledCount(ctx, testServerIp); err != nil {
		t.Fatal(err)
	}

	gamesCreated, err := dbm.Analytics.GetGamesCreatedCount(ctx, testServerIp)
	if err != nil {
		t.Fatalf("failed to fetch created games: %v", err)
	}
	if gamesCreated != 1 {
		t.Fatalf("expected number of created games: %d\tgot: %d", 1, gamesCreated)
	}

	rematchCalled, err := dbm.Analytics.GetRematchCalledCount(ctx, testServerIp)
	if err != nil {
		t.Fatalf("failed to fetch rematch calls: %v", err)
	}
	if rematchCalled != 1 {
		t.Fatalf("expected number of rematch calls: %d\tgot: %d", 1, rematchCalled)
	}

	if err = mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestAnalyticsUnknownServer(t *testing.T) {
	dbm, mock := newTestDbManager(t)

	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(testServerIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}))

	if _, err := dbm.Analytics.GetGamesCreatedCount(testCtx(t), testServerIp); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected error: %v\tgot: %v", sql.ErrNoRows, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestRecordComputerMatch(t *testing.T) {
	dbm, mock := newTestDbManager(t)
	ctx := testCtx(t)

	result := InsertComputerMatchResultParams{
		GameUuid:      "a1b2c3",
		GameMode:      1,
		Winner:        "computer",
		ComputerShots: 54,
		ComputerHits:  17,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO computer_match_results")).
		WithArgs(result.GameUuid, result.GameMode, result.Winner, result.ComputerShots, result.ComputerHits).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM computer_match_results")).
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"matches", "computer_wins", "avg_shots_to_win"}).AddRow(1, 1, 54.0))

	if err := dbm.Analytics.RecordComputerMatch(ctx, result); err != nil {
		t.Fatal(err)
	}

	stats, err := dbm.Analytics.ComputerMatchStats(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	expected := GetComputerMatchStatsRow{Matches: 1, ComputerWins: 1, AvgShotsToWin: 54}
	if stats != expected {
		t.Fatalf("expected stats: %+v\tgot: %+v", expected, stats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestRecordComputerMatchFails(t *testing.T) {
	dbm, mock := newTestDbManager(t)
	dbErr := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO computer_match_results")).
		WillReturnError(dbErr)

	err := dbm.Analytics.RecordComputerMatch(testCtx(t), InsertComputerMatchResultParams{GameUuid: "a1b2c3"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected error: %v\tgot: %v", dbErr, err)
	}
}
