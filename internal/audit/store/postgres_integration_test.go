//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lexid/internal/audit"
	auditstore "lexid/internal/audit/store"
	profilemodels "lexid/internal/profile/models"
	profilestore "lexid/internal/profile/store"
	id "lexid/pkg/domain"
	txcontext "lexid/pkg/platform/tx"
	"lexid/pkg/testutil/containers"
)

type AuditPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *auditstore.PostgresStore
	profiles *profilestore.PostgresStore
}

func TestAuditPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditPostgresSuite))
}

func (s *AuditPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = auditstore.NewPostgresStore(s.postgres.DB)
	s.profiles = profilestore.NewPostgresStore(s.postgres.DB)
}

func (s *AuditPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_entries", "profiles"))
}

func (s *AuditPostgresSuite) seedProfile() id.ProfileID {
	now := time.Now().UTC()
	profile := &profilemodels.Profile{
		ID:         id.ProfileID(uuid.New()),
		IdentityID: "ident",
		Email:      "owner" + uuid.NewString() + "@example.com",
		FullName:   "Owner",
		Role:       id.RoleLawyer,
		CreatedAt:  now,
	}
	s.Require().NoError(s.profiles.Create(context.Background(), profile))
	return profile.ID
}

func (s *AuditPostgresSuite) entry(profileID id.ProfileID, action audit.Action, at time.Time) audit.Entry {
	return audit.Entry{
		ID:        id.NewEntryID(),
		ProfileID: profileID,
		Action:    action,
		OldValue:  "old",
		NewValue:  "new",
		ChangedAt: at,
	}
}

func (s *AuditPostgresSuite) TestAppendAndListNewestFirst() {
	ctx := context.Background()
	profileID := s.seedProfile()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.entry(profileID, audit.ActionWalletAdded, base)
	second := s.entry(profileID, audit.ActionWalletChanged, base.Add(time.Minute))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	entries, err := s.store.ListByProfile(ctx, profileID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(second.ID, entries[0].ID)
	s.Equal(first.ID, entries[1].ID)
}

func (s *AuditPostgresSuite) TestAppendIsIdempotentByID() {
	ctx := context.Background()
	profileID := s.seedProfile()

	entry := s.entry(profileID, audit.ActionWalletAdded, time.Now().UTC())
	s.Require().NoError(s.store.Append(ctx, entry))
	s.Require().NoError(s.store.Append(ctx, entry))

	entries, err := s.store.ListByProfile(ctx, profileID)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *AuditPostgresSuite) TestChangedByRoundTrip() {
	ctx := context.Background()
	profileID := s.seedProfile()
	actor := id.ProfileID(uuid.New())

	withActor := s.entry(profileID, audit.ActionWalletVerified, time.Now().UTC())
	withActor.ChangedBy = &actor
	system := s.entry(profileID, audit.ActionWalletAdded, time.Now().UTC().Add(-time.Minute))
	s.Require().NoError(s.store.Append(ctx, withActor))
	s.Require().NoError(s.store.Append(ctx, system))

	entries, err := s.store.ListByProfile(ctx, profileID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Require().NotNil(entries[0].ChangedBy)
	s.Equal(actor, *entries[0].ChangedBy)
	s.Nil(entries[1].ChangedBy)
}

func (s *AuditPostgresSuite) TestEntriesCascadeWithProfile() {
	ctx := context.Background()
	profileID := s.seedProfile()

	s.Require().NoError(s.store.Append(ctx, s.entry(profileID, audit.ActionWalletAdded, time.Now().UTC())))
	s.Require().NoError(s.profiles.Delete(ctx, profileID))

	entries, err := s.store.ListByProfile(ctx, profileID)
	s.Require().NoError(err)
	s.Empty(entries)
}

// Appends made inside a rolled-back transaction never reach the ledger,
// keeping it consistent with the profile mutation that failed.
func (s *AuditPostgresSuite) TestAppendJoinsContextTransaction() {
	ctx := context.Background()
	profileID := s.seedProfile()

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)

	s.Require().NoError(s.store.Append(txCtx, s.entry(profileID, audit.ActionWalletAdded, time.Now().UTC())))
	s.Require().NoError(tx.Rollback())

	entries, err := s.store.ListByProfile(ctx, profileID)
	s.Require().NoError(err)
	s.Empty(entries)
}
