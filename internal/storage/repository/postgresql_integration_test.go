package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackethub/club-organizer/internal/models"
)

func TestStorage_CreateClub(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")

	club, err := storage.CreateClub(context.Background(), "Morning Padel", "weekday games", "", ownerUID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Padel", club.Name)
	assert.Equal(t, ownerUID, club.OwnerUID)
	assert.NotEmpty(t, club.ID)

	verification := NewTestVerification(storage)
	verification.VerifyClubExists(t, club.ID)
}

func TestStorage_CreateClub_CaseInsensitiveConflict(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")

	_, err := storage.CreateClub(context.Background(), "Morning Padel", "", "", ownerUID)
	require.NoError(t, err)

	// Уникальный индекс по lower(name) — окончательный арбитр.
	_, err = storage.CreateClub(context.Background(), "MORNING PADEL", "", "", ownerUID)
	assert.ErrorIs(t, err, models.ErrNameConflict)
}

func TestStorage_ClubNameExists(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	tests := []struct {
		name      string
		checkName string
		excludeID string
		want      bool
	}{
		{name: "taken name", checkName: "Morning Padel", want: true},
		{name: "taken name different case", checkName: "morning PADEL", want: true},
		{name: "free name", checkName: "Evening Tennis", want: false},
		{name: "own club excluded on rename", checkName: "Morning Padel", excludeID: clubID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ClubNameExists(context.Background(), tt.checkName, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_UpdateClub(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	newBio := "new description"
	updated, err := storage.UpdateClub(context.Background(), clubID, nil, &newBio, nil)
	require.NoError(t, err)
	// Незаданные поля не меняются.
	assert.Equal(t, "Morning Padel", updated.Name)
	assert.Equal(t, "new description", updated.Bio)

	newName := "Evening Tennis"
	updated, err = storage.UpdateClub(context.Background(), clubID, &newName, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Evening Tennis", updated.Name)
	assert.Equal(t, "new description", updated.Bio)

	_, err = storage.UpdateClub(context.Background(), "00000000-0000-0000-0000-000000000000", &newName, nil, nil)
	assert.ErrorIs(t, err, models.ErrClubNotFound)
}

func TestStorage_DeleteClub_CascadesMemberships(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)
	factory.CreateMembership(t, clubID, ownerUID, models.RoleOwner, models.StatusActive)

	err := storage.DeleteClub(context.Background(), clubID)
	require.NoError(t, err)

	verification := NewTestVerification(storage)
	verification.VerifyClubDeleted(t, clubID)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM club_memberships WHERE club_id = $1", clubID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = storage.DeleteClub(context.Background(), clubID)
	assert.ErrorIs(t, err, models.ErrClubNotFound)
}

func TestStorage_CountClubsByOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	otherUID := factory.CreateProfile(t, "other", "other@example.com")
	factory.CreateClub(t, "Club One", ownerUID)
	factory.CreateClub(t, "Club Two", ownerUID)
	factory.CreateClub(t, "Club Three", otherUID)

	count, err := storage.CountClubsByOwner(context.Background(), ownerUID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStorage_CreateMembership_DuplicateRejected(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	memberUID := factory.CreateProfile(t, "member", "member@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	_, err := storage.CreateMembership(context.Background(), clubID, memberUID,
		models.RoleMember, models.StatusActive)
	require.NoError(t, err)

	_, err = storage.CreateMembership(context.Background(), clubID, memberUID,
		models.RoleMember, models.StatusActive)
	assert.ErrorIs(t, err, models.ErrAlreadyMember)
}

func TestStorage_CreateMembership_AfterRemovalAllowed(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	memberUID := factory.CreateProfile(t, "member", "member@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	m, err := storage.CreateMembership(context.Background(), clubID, memberUID,
		models.RoleMember, models.StatusActive)
	require.NoError(t, err)

	_, err = storage.UpdateMembershipStatus(context.Background(), m.ID, models.StatusRemoved)
	require.NoError(t, err)

	// Частичный индекс не учитывает удалённые членства: повторное вступление возможно.
	_, err = storage.CreateMembership(context.Background(), clubID, memberUID,
		models.RoleMember, models.StatusActive)
	assert.NoError(t, err)
}

func TestStorage_GetMembershipByClubUser_IgnoresRemoved(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	memberUID := factory.CreateProfile(t, "member", "member@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)
	membershipID := factory.CreateMembership(t, clubID, memberUID, models.RoleMember, models.StatusRemoved)

	_, err := storage.GetMembershipByClubUser(context.Background(), clubID, memberUID)
	assert.ErrorIs(t, err, models.ErrMembershipNotFound)

	got, err := storage.GetMembership(context.Background(), membershipID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRemoved, got.Status)
}

func TestStorage_ListMembers_Order(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	adminUID := factory.CreateProfile(t, "admin", "admin@example.com")
	memberUID := factory.CreateProfile(t, "member", "member@example.com")
	removedUID := factory.CreateProfile(t, "removed", "removed@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	// Вставка в обратном порядке ролей: порядок выдачи задаёт запрос.
	factory.CreateMembership(t, clubID, memberUID, models.RoleMember, models.StatusActive)
	factory.CreateMembership(t, clubID, adminUID, models.RoleAdmin, models.StatusActive)
	factory.CreateMembership(t, clubID, ownerUID, models.RoleOwner, models.StatusActive)
	factory.CreateMembership(t, clubID, removedUID, models.RoleMember, models.StatusRemoved)

	members, err := storage.ListMembers(context.Background(), clubID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, models.RoleOwner, members[0].Role)
	assert.Equal(t, models.RoleAdmin, members[1].Role)
	assert.Equal(t, models.RoleMember, members[2].Role)
}

func TestStorage_OwnerMembershipExists(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	exists, err := storage.OwnerMembershipExists(context.Background(), clubID)
	require.NoError(t, err)
	assert.False(t, exists)

	factory.CreateMembership(t, clubID, ownerUID, models.RoleOwner, models.StatusActive)

	exists, err = storage.OwnerMembershipExists(context.Background(), clubID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStorage_CreateInvitation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	guestUID := factory.CreateProfile(t, "guest", "guest@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	inv, err := storage.CreateInvitation(context.Background(), clubID, ownerUID,
		models.InviteByUser(guestUID))
	require.NoError(t, err)
	assert.Equal(t, guestUID, inv.InvitedUserUID)
	assert.Empty(t, inv.InvitedEmail)
	assert.Equal(t, models.InvitationPending, inv.Status)

	// Повторное приглашение того же адресата отклоняется частичным индексом.
	_, err = storage.CreateInvitation(context.Background(), clubID, ownerUID,
		models.InviteByUser(guestUID))
	assert.ErrorIs(t, err, models.ErrDuplicateInvitation)

	inv, err = storage.CreateInvitation(context.Background(), clubID, ownerUID,
		models.InviteByEmail("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", inv.InvitedEmail)
}

func TestStorage_PendingInvitationExists(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateProfile(t, "owner", "owner@example.com")
	guestUID := factory.CreateProfile(t, "guest", "guest@example.com")
	clubID := factory.CreateClub(t, "Morning Padel", ownerUID)

	_, err := storage.CreateInvitation(context.Background(), clubID, ownerUID,
		models.InviteByEmail("Guest@Example.com"))
	require.NoError(t, err)

	exists, err := storage.PendingInvitationExists(context.Background(), clubID,
		models.InviteByEmail("guest@example.com"))
	require.NoError(t, err)
	assert.True(t, exists, "email match is case-insensitive")

	exists, err = storage.PendingInvitationExists(context.Background(), clubID,
		models.InviteByUser(guestUID))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_GetProfileByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateProfileWithTier(t, "alice", "alice@example.com", models.TierPersonal, 2)

	profile, err := storage.GetProfileByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uid, profile.UID)
	assert.Equal(t, models.TierPersonal, profile.CurrentTier)
	assert.Equal(t, 2, profile.SessionCountMonthly)

	_, err = storage.GetProfileByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestStorage_IncrementSessionCount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateProfileWithTier(t, "alice", "alice@example.com", models.TierFree, 2)

	require.NoError(t, storage.IncrementSessionCount(context.Background(), uid))
	require.NoError(t, storage.IncrementSessionCount(context.Background(), uid))

	verification := NewTestVerification(storage)
	verification.VerifySessionCount(t, uid, 4)

	err := storage.IncrementSessionCount(context.Background(),
		"00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestStorage_ResetStaleSessionCounters(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	staleUID := factory.CreateProfileWithTier(t, "stale", "stale@example.com", models.TierFree, 4)
	freshUID := factory.CreateProfileWithTier(t, "fresh", "fresh@example.com", models.TierFree, 2)

	// Профиль со сбросом в прошлом месяце.
	_, err := storage.DB.Exec(`UPDATE profiles
		SET last_session_count_reset = (CURRENT_DATE - INTERVAL '1 month')::date
		WHERE uid = $1`, staleUID)
	require.NoError(t, err)

	count, err := storage.ResetStaleSessionCounters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	verification := NewTestVerification(storage)
	verification.VerifySessionCount(t, staleUID, 0)
	verification.VerifySessionCount(t, freshUID, 2)

	// Повторный проход идемпотентен.
	count, err = storage.ResetStaleSessionCounters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_RegisterProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.RegisterProfile(context.Background(), models.Profile{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hashedpassword",
		CurrentTier:  models.TierFree,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	profile, err := storage.GetProfile(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, models.TierFree, profile.CurrentTier)
}
