package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/ChillLP/traewelling/internal/domain"
	"github.com/ChillLP/traewelling/internal/repo"
)

// Fixture builders: insert prerequisite rows through the repos themselves
// so foreign keys are satisfied inside the test transaction.

func createUser(t *testing.T, tx pgx.Tx, username string) domain.User {
	t.Helper()
	user, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Username:    username,
		DisplayName: username,
		Role:        domain.RoleUser,
	})
	require.NoError(t, err, "create fixture user")
	return user
}

func createStatus(t *testing.T, tx pgx.Tx, userID int64) domain.Status {
	t.Helper()
	status, err := repo.NewStatusRepo(tx).Create(context.Background(), domain.Status{
		UserID: userID,
		Body:   "on my way",
	})
	require.NoError(t, err, "create fixture status")
	return status
}

func createStation(t *testing.T, tx pgx.Tx, ibnr int64, name string) domain.TrainStation {
	t.Helper()
	station, err := repo.NewStationRepo(tx).Upsert(context.Background(), domain.TrainStation{
		IBNR: ibnr,
		Name: name,
	})
	require.NoError(t, err, "create fixture station")
	return station
}

func eventFixture(stationID int64) domain.Event {
	return domain.Event{
		Name:      "36C3",
		Slug:      "36c3",
		Hashtag:   "36c3",
		Host:      "CCC",
		URL:       "https://events.ccc.de",
		StationID: stationID,
		Begin:     time.Date(2019, 12, 27, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC),
	}
}

func suggestionFixture(userID int64) domain.EventSuggestion {
	return domain.EventSuggestion{
		UserID:             userID,
		Name:               "36C3",
		Hashtag:            "36c3",
		Host:               "CCC",
		URL:                "https://events.ccc.de",
		NearestStationName: "Leipzig Hbf",
		Begin:              time.Date(2019, 12, 27, 0, 0, 0, 0, time.UTC),
		End:                time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC),
	}
}
