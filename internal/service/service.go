package service

import (
	"github.com/hance08/fairshare/internal/config"
	"github.com/hance08/fairshare/internal/store"
	"github.com/sirupsen/logrus"
)

type Service struct {
	Member     *MemberService
	Expense    *ExpenseService
	Settlement *SettlementService
	Config     *config.Config
}

func NewService(repo store.Repository, cfg *config.Config, log logrus.FieldLogger) *Service {
	members := NewMemberService(repo, log)
	return &Service{
		Member:     members,
		Expense:    NewExpenseService(repo, members, log),
		Settlement: NewSettlementService(repo, members, log),
		Config:     cfg,
	}
}
