package store

import (
	"context"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// FetchTeamMembers загружает участников компании
func (s *Store) FetchTeamMembers(ctx context.Context, companyID domain.ID) ([]domain.TeamMember, error) {
	return run(ctx, s, "fetch_team_members", teamStatus, func(ctx context.Context) ([]domain.TeamMember, error) {
		return s.api.ListMembers(ctx, companyID)
	}, func(st *State, members []domain.TeamMember) {
		st.Team.TeamMembers = members
	})
}

// FetchTeamInvitations загружает приглашения компании
func (s *Store) FetchTeamInvitations(ctx context.Context, companyID domain.ID) ([]domain.Invitation, error) {
	return run(ctx, s, "fetch_team_invitations", teamStatus, func(ctx context.Context) ([]domain.Invitation, error) {
		return s.api.ListInvitations(ctx, companyID)
	}, func(st *State, invs []domain.Invitation) {
		st.Team.TeamInvitations = invs
	})
}

// SendInvitation отправляет приглашение в компанию
func (s *Store) SendInvitation(ctx context.Context, companyID domain.ID, email, role string) (*domain.Invitation, error) {
	return run(ctx, s, "send_invitation", teamStatus, func(ctx context.Context) (*domain.Invitation, error) {
		return s.api.SendInvitation(ctx, companyID, email, role)
	}, func(st *State, inv *domain.Invitation) {
		st.Team.TeamInvitations = append(st.Team.TeamInvitations, *inv)
	})
}

// CancelInvitation отменяет приглашение
func (s *Store) CancelInvitation(ctx context.Context, companyID, invitationID domain.ID) error {
	return exec(ctx, s, "cancel_invitation", teamStatus, func(ctx context.Context) error {
		return s.api.CancelInvitation(ctx, companyID, invitationID)
	}, func(st *State) {
		kept := st.Team.TeamInvitations[:0]
		for _, inv := range st.Team.TeamInvitations {
			if inv.ID != invitationID {
				kept = append(kept, inv)
			}
		}
		st.Team.TeamInvitations = kept
	})
}

// RemoveTeamMember исключает участника из компании
func (s *Store) RemoveTeamMember(ctx context.Context, companyID, memberID domain.ID) error {
	return exec(ctx, s, "remove_team_member", teamStatus, func(ctx context.Context) error {
		return s.api.RemoveMember(ctx, companyID, memberID)
	}, func(st *State) {
		kept := st.Team.TeamMembers[:0]
		for _, m := range st.Team.TeamMembers {
			if m.ID != memberID {
				kept = append(kept, m)
			}
		}
		st.Team.TeamMembers = kept
	})
}

// UpdateTeamMemberRole меняет роль участника
func (s *Store) UpdateTeamMemberRole(ctx context.Context, companyID, memberID domain.ID, role string) (*domain.TeamMember, error) {
	return run(ctx, s, "update_team_member_role", teamStatus, func(ctx context.Context) (*domain.TeamMember, error) {
		return s.api.UpdateMemberRole(ctx, companyID, memberID, role)
	}, func(st *State, updated *domain.TeamMember) {
		for i := range st.Team.TeamMembers {
			if st.Team.TeamMembers[i].ID == memberID {
				st.Team.TeamMembers[i] = *updated
			}
		}
	})
}
