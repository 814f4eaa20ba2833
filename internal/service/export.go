package service

import (
	"github.com/paydown/finance-tracker/internal/export"
)

// ExportUserData gathers a user's full portfolio and renders it as XML.
func (s *Service) ExportUserData(userID int64) ([]byte, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	cards, err := s.repo.ListCardAccounts(userID)
	if err != nil {
		return nil, err
	}
	loans, err := s.repo.ListLoans(userID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListLoanEvents(userID)
	if err != nil {
		return nil, err
	}
	return export.BuildUserExport(user, cards, loans, events)
}
