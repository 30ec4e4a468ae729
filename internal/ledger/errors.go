package ledger

import "errors"

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found in group")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNoMembers      = errors.New("no members to split with")
	ErrSameParty      = errors.New("debtor and creditor are the same member")
)
