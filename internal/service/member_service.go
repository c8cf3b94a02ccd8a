package service

import (
	"context"
	"fmt"

	"github.com/hance08/fairshare/internal/store"
	"github.com/sirupsen/logrus"
)

// Membership answers the two questions the ledger asks about groups.
type Membership interface {
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMembers(ctx context.Context, groupID int64) ([]int64, error)
}

type MemberService struct {
	repo store.Repository
	log  logrus.FieldLogger
}

func NewMemberService(repo store.Repository, log logrus.FieldLogger) *MemberService {
	return &MemberService{repo: repo, log: log}
}

// AddMembers returns the ids that were not members before.
func (ms *MemberService) AddMembers(ctx context.Context, groupID int64, userIDs ...int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, invalid("userIds", "At least one user id is required")
	}
	for _, id := range userIDs {
		if id <= 0 {
			return nil, invalid("userIds", "User id must be positive, got %d", id)
		}
	}

	var added []int64
	err := ms.repo.ExecTx(ctx, func(tx store.Repository) error {
		for _, id := range userIDs {
			ok, err := tx.AddMember(ctx, groupID, id)
			if err != nil {
				return err
			}
			if ok {
				added = append(added, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add members: %w", err)
	}

	ms.log.WithFields(logrus.Fields{"group_id": groupID, "added": added}).Info("members added")
	return added, nil
}

func (ms *MemberService) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	return ms.repo.IsMember(ctx, groupID, userID)
}

func (ms *MemberService) ListMembers(ctx context.Context, groupID int64) ([]int64, error) {
	return ms.repo.ListMembers(ctx, groupID)
}

func requireMember(ctx context.Context, m Membership, groupID, userID int64) error {
	ok, err := m.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("userId", "User %d is not a member of group %d", userID, groupID)
	}
	return nil
}
