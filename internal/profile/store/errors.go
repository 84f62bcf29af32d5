package store

import (
	"fmt"

	"rishta/pkg/platform/sentinel"
)

// Both wrap sentinel.ErrAlreadyUsed; registration retries only on ErrProfileIDTaken.
var (
	ErrOwnerTaken     = fmt.Errorf("owner identity: %w", sentinel.ErrAlreadyUsed)
	ErrProfileIDTaken = fmt.Errorf("profile id: %w", sentinel.ErrAlreadyUsed)
)
