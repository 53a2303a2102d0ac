//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	store     *DB
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("relief"),
		tcpostgres.WithUsername("relief"),
		tcpostgres.WithPassword("relief"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.store, err = NewDB(ctx, connString, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(s.store.RunMigrations(ctx))
	// Migrations are tracked, so a second run is a no-op
	s.Require().NoError(s.store.RunMigrations(ctx))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.store.pool.Exec(ctx, `TRUNCATE volunteer_assignment, camp_selection, camp, session, profile, app_user`)
	s.Require().NoError(err)
	s.Require().NoError(s.store.SeedCamps(ctx, db.DefaultCamps(time.Now())))
}

func (s *PostgresSuite) insertAccount(email string) *db.Account {
	now := time.Now()
	id := uuid.NewString()
	account := &db.Account{
		User:    db.User{ID: id, Email: email, PasswordHash: "hash", CreatedAt: now},
		Profile: db.Profile{ID: id, Email: email, Name: "Test", Role: db.RoleVolunteer, CreatedAt: now},
	}
	s.Require().NoError(s.store.InsertAccount(context.Background(), account))
	return account
}

func (s *PostgresSuite) selection(userID, campID string) *db.CampSelection {
	return &db.CampSelection{ID: uuid.NewString(), UserID: userID, CampID: campID, SelectedAt: time.Now()}
}

func (s *PostgresSuite) beds(campID string) int {
	c, err := s.store.GetCamp(context.Background(), campID)
	s.Require().NoError(err)
	return c.Beds
}

func (s *PostgresSuite) TestAccounts_DuplicateEmailIsCaseInsensitive() {
	ctx := context.Background()
	first := s.insertAccount("a@x.com")

	now := time.Now()
	err := s.store.InsertAccount(ctx, &db.Account{
		User:    db.User{ID: "other", Email: "A@X.COM", PasswordHash: "hash", CreatedAt: now},
		Profile: db.Profile{ID: "other", Email: "A@X.COM", Name: "Other", Role: db.RoleVolunteer, CreatedAt: now},
	})
	s.ErrorIs(err, db.ErrDuplicateEmail)

	got, err := s.store.GetAccountByEmail(ctx, "a@X.com")
	s.Require().NoError(err)
	s.Equal(first.User.ID, got.User.ID)
	s.Equal("Test", got.Profile.Name)
}

func (s *PostgresSuite) TestSessions_Lifecycle() {
	ctx := context.Background()
	account := s.insertAccount("s@x.com")

	s.Require().NoError(s.store.InsertSession(ctx, &db.Session{Token: "tok", UserID: account.User.ID, CreatedAt: time.Now()}))

	got, err := s.store.GetSession(ctx, "tok")
	s.Require().NoError(err)
	s.Equal(account.User.ID, got.UserID)

	s.NoError(s.store.DeleteSession(ctx, "tok"))
	s.NoError(s.store.DeleteSession(ctx, "tok"))

	_, err = s.store.GetSession(ctx, "tok")
	s.ErrorIs(err, db.ErrNotFound)

	err = s.store.InsertSession(ctx, &db.Session{Token: "tok2", UserID: "ghost", CreatedAt: time.Now()})
	s.ErrorIs(err, db.ErrNotFound)
}

func (s *PostgresSuite) TestSelectAndCancel() {
	ctx := context.Background()

	s.Require().NoError(s.store.SelectCamp(ctx, s.selection("alice", "camp-1")))
	s.Equal(49, s.beds("camp-1"))

	err := s.store.SelectCamp(ctx, s.selection("alice", "camp-2"))
	s.ErrorIs(err, db.ErrAlreadyReserved)
	s.Equal(75, s.beds("camp-2"))

	sel, err := s.store.GetUserCampSelection(ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(sel)
	s.Equal("camp-1", sel.CampID)
	s.Equal(49, sel.Camp.Beds)

	s.Require().NoError(s.store.CancelCampSelection(ctx, "alice"))
	s.Equal(50, s.beds("camp-1"))

	sel, err = s.store.GetUserCampSelection(ctx, "alice")
	s.Require().NoError(err)
	s.Nil(sel)

	s.ErrorIs(s.store.CancelCampSelection(ctx, "alice"), db.ErrNotFound)
}

func (s *PostgresSuite) TestSelectCamp_Failures() {
	ctx := context.Background()

	s.ErrorIs(s.store.SelectCamp(ctx, s.selection("bob", "missing")), db.ErrNotFound)

	_, err := s.store.InsertCamp(ctx, &db.Camp{ID: "camp-x", Name: "Full", Type: db.CampTypeVolunteerAdded, CreatedAt: time.Now()})
	s.Require().NoError(err)

	s.ErrorIs(s.store.SelectCamp(ctx, s.selection("bob", "camp-x")), db.ErrNoCapacity)
	sel, err := s.store.GetUserCampSelection(ctx, "bob")
	s.Require().NoError(err)
	s.Nil(sel)
}

func (s *PostgresSuite) TestCamps_ListingAndDelete() {
	ctx := context.Background()
	creator := s.insertAccount("v@x.com")

	listing, err := s.store.InsertCamp(ctx, &db.Camp{
		ID:            "camp-v",
		Name:          "Library",
		Beds:          4,
		OriginalBeds:  4,
		Resources:     []string{"Water"},
		Ambulance:     "No",
		Type:          db.CampTypeVolunteerAdded,
		AddedByUserID: &creator.User.ID,
		CreatedAt:     time.Now().Add(time.Second),
	})
	s.Require().NoError(err)
	s.Require().NotNil(listing.AddedByUser)
	s.Equal("v@x.com", listing.AddedByUser.Email)

	camps, err := s.store.GetCamps(ctx)
	s.Require().NoError(err)
	s.Require().Len(camps, 4)
	s.Equal([]string{"Food", "Water", "Medical Aid", "Blankets"}, camps[0].Resources)
	for _, c := range camps[:3] {
		s.Nil(c.AddedByUser)
	}
	s.Equal("camp-v", camps[3].ID)
	s.NotNil(camps[3].AddedByUser)

	s.ErrorIs(s.store.DeleteCamp(ctx, "camp-1"), db.ErrForbidden)
	s.ErrorIs(s.store.DeleteCamp(ctx, "missing"), db.ErrNotFound)

	s.Require().NoError(s.store.SelectCamp(ctx, s.selection("alice", "camp-v")))
	s.Require().NoError(s.store.DeleteCamp(ctx, "camp-v"))

	sel, err := s.store.GetUserCampSelection(ctx, "alice")
	s.Require().NoError(err)
	s.Nil(sel, "selection should cascade with its camp")
}

func (s *PostgresSuite) TestInsertCamp_UnknownCreatorIsAnnotatedNull() {
	ctx := context.Background()
	ghost := "ghost"

	listing, err := s.store.InsertCamp(ctx, &db.Camp{
		ID:            "camp-g",
		Name:          "Temple Hall",
		Beds:          5,
		OriginalBeds:  5,
		Type:          db.CampTypeVolunteerAdded,
		AddedByUserID: &ghost,
		CreatedAt:     time.Now().Add(time.Second),
	})
	s.Require().NoError(err)
	s.Nil(listing.AddedByUser)
	s.Require().NotNil(listing.AddedByUserID)
	s.Equal("ghost", *listing.AddedByUserID)
}

func (s *PostgresSuite) TestVolunteerAssignments() {
	ctx := context.Background()

	s.Require().NoError(s.store.InsertVolunteerAssignment(ctx, &db.VolunteerAssignment{
		ID: "a1", VolunteerID: "vol", CampID: "camp-2", Schedule: "FREQ=DAILY", AssignedAt: time.Now(),
	}))
	err := s.store.InsertVolunteerAssignment(ctx, &db.VolunteerAssignment{
		ID: "a2", VolunteerID: "vol", CampID: "missing", AssignedAt: time.Now(),
	})
	s.ErrorIs(err, db.ErrNotFound)

	assignments, err := s.store.GetVolunteerAssignments(ctx, "vol")
	s.Require().NoError(err)
	s.Require().Len(assignments, 1)
	s.Equal("FREQ=DAILY", assignments[0].Schedule)
	s.Require().NotNil(assignments[0].Camp)
	s.Equal("Government High School", assignments[0].Camp.Name)

	none, err := s.store.GetVolunteerAssignments(ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *PostgresSuite) TestConcurrentSelectionsNeverOverbook() {
	ctx := context.Background()
	_, err := s.store.InsertCamp(ctx, &db.Camp{ID: "small", Name: "Small", Beds: 5, OriginalBeds: 5, Type: db.CampTypeVolunteerAdded, CreatedAt: time.Now()})
	s.Require().NoError(err)
	const goroutines = 30

	var wg sync.WaitGroup
	var successCount, fullCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.store.SelectCamp(ctx, s.selection(fmt.Sprintf("user-%d", i), "small"))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, db.ErrNoCapacity):
				fullCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(5), successCount.Load())
	s.Equal(int32(goroutines-5), fullCount.Load())
	s.Equal(0, s.beds("small"))
}

func (s *PostgresSuite) TestConcurrentSelectionsSameUser() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, reservedCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.store.SelectCamp(ctx, s.selection("alice", fmt.Sprintf("camp-%d", i%3+1)))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, db.ErrAlreadyReserved):
				reservedCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), reservedCount.Load())
	s.Equal(50+75+100-1, s.beds("camp-1")+s.beds("camp-2")+s.beds("camp-3"))
}

func (s *PostgresSuite) TestSubscriptions() {
	ctx := context.Background()

	events := make(chan db.ChangeEvent, 16)
	unsubscribe, err := s.store.SubscribeToCampSelections(ctx, func(ev db.ChangeEvent) { events <- ev })
	s.Require().NoError(err)

	s.Require().NoError(s.store.SelectCamp(ctx, s.selection("alice", "camp-3")))

	select {
	case ev := <-events:
		s.Equal(db.TableCampSelection, ev.Table)
		s.Equal(db.OpInsert, ev.Op)
		s.NotEmpty(ev.RecordID)
		s.False(ev.At.IsZero())
	case <-time.After(5 * time.Second):
		s.Fail("timed out waiting for notification")
	}

	unsubscribe()
	unsubscribe()

	s.Require().NoError(s.store.CancelCampSelection(ctx, "alice"))
	select {
	case ev := <-events:
		s.Failf("unexpected notification after unsubscribe", "%+v", ev)
	case <-time.After(500 * time.Millisecond):
	}
}
