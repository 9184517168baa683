package stats

import (
	"time"

	"github.com/kestrelhq/workstats/internal/page"
)

// ContributorOrder selects the ranking field for the contributor leaderboard.
type ContributorOrder string

const (
	OrderCommits            ContributorOrder = "commits"
	OrderPRsCreated         ContributorOrder = "prs_created"
	OrderTotalContributions ContributorOrder = "total_contributions"
)

// ContributorType narrows the leaderboard to a contributor cohort. The
// cohort semantics are defined by the contributor-stats collector; this
// service passes the value through unchanged.
type ContributorType string

const (
	TypeAll    ContributorType = "all"
	TypeActive ContributorType = "active"
	TypeNew    ContributorType = "new"
	TypeAlumni ContributorType = "alumni"
)

// StatsOptions scopes a workspace stats request.
type StatsOptions struct {
	RangeDays         int
	PrevDaysStartDate time.Time
	RepoFilter        string
}

// Validate checks the range bounds.
func (o StatsOptions) Validate() error {
	if o.RangeDays <= 0 {
		return ErrInvalidOptions
	}
	return nil
}

// RossOptions scopes a Ross index request.
type RossOptions struct {
	RangeDays int
}

// Validate checks the range bounds.
func (o RossOptions) Validate() error {
	if o.RangeDays <= 0 {
		return ErrInvalidOptions
	}
	return nil
}

// ContributorOptions scopes a contributor leaderboard request.
type ContributorOptions struct {
	page.Options

	OrderBy         ContributorOrder
	ContributorType ContributorType
	RangeDays       int
}

// DefaultContributorOptions returns the leaderboard defaults: first page of
// ten, ordered by commits descending, all contributors, thirty-day range.
func DefaultContributorOptions() ContributorOptions {
	return ContributorOptions{
		Options:         page.DefaultOptions(),
		OrderBy:         OrderCommits,
		ContributorType: TypeAll,
		RangeDays:       30,
	}
}

// Validate checks the pagination, ordering and cohort parameters.
func (o ContributorOptions) Validate() error {
	if err := o.Options.Validate(); err != nil {
		return err
	}
	switch o.OrderBy {
	case OrderCommits, OrderPRsCreated, OrderTotalContributions:
	default:
		return ErrInvalidOptions
	}
	switch o.ContributorType {
	case TypeAll, TypeActive, TypeNew, TypeAlumni:
	default:
		return ErrInvalidOptions
	}
	if o.RangeDays <= 0 {
		return ErrInvalidOptions
	}
	return nil
}
