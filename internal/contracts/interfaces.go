package contracts

import "context"

// CandidateSource supplies evaluable candidates for a tenant
// ⭐ SSOT: candidate loading interface
type CandidateSource interface {
	ListCandidates(ctx context.Context, orgID string) ([]Candidate, error)
}

// InvestorSource supplies investor records with raw mandates and holdings.
// Implementations must return partial mandates rather than failing when
// fields are missing.
type InvestorSource interface {
	GetInvestor(ctx context.Context, investorID string) (*Investor, error)
	ListInvestors(ctx context.Context, orgID string) ([]Investor, error)
}

// SignalFeed supplies market signals with cursor pagination (ascending id)
// and a batched existence check for already-mapped signals.
type SignalFeed interface {
	ListSignalsAfter(ctx context.Context, orgID, afterID string, limit int) ([]MarketSignal, error)
	MappedSignalIDs(ctx context.Context, orgID string, signalIDs []string) (map[string]bool, error)
}

// TargetSink accepts signal target upsert batches keyed on
// (org_id, signal_id, investor_id). At-least-once delivery, exactly-once
// effect: retrying a batch must not create duplicate rows.
type TargetSink interface {
	UpsertTargets(ctx context.Context, targets []SignalTarget) (int, error)
}
