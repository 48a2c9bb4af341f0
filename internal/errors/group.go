package errors

var (
	ErrAlreadyMember = &DomainError{
		Code:    "ALREADY_MEMBER",
		Message: "user already joined this group",
	}
	ErrMissingShippingInfo = &DomainError{
		Code:    "MISSING_SHIPPING_INFO",
		Message: "Missing shipping information",
	}
	ErrGroupFull = &DomainError{
		Code:    "GROUP_FULL",
		Message: "group has reached its target capacity",
	}
	ErrGroupExpired = &DomainError{
		Code:    "GROUP_EXPIRED",
		Message: "group offer has expired",
	}
	ErrNotAMember = &DomainError{
		Code:    "NOT_A_MEMBER",
		Message: "user is not a member of this group",
	}
	ErrGroupNotOpen = &DomainError{
		Code:    "GROUP_NOT_OPEN",
		Message: "group is not accepting members",
	}
	ErrVotingClosed = &DomainError{
		Code:    "VOTING_CLOSED",
		Message: "group is not in its voting phase",
	}
)
