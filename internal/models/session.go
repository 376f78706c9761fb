package models

// Stage is a step of the talk pipeline.
type Stage string

const (
	StageReceived    Stage = "received"
	StageTranscribed Stage = "transcribed"
	StageReplied     Stage = "replied"
	StageAugmented   Stage = "augmented"
	StageSynthesized Stage = "synthesized"
	StageDelivered   Stage = "delivered"
	StageFailed      Stage = "failed"
)

// SessionState is the lifecycle of one duplex relay session.
type SessionState string

const (
	SessionConnecting SessionState = "connecting" // client connected, upstream dialing
	SessionConfigSent SessionState = "config_sent"
	SessionRelaying   SessionState = "relaying"
	SessionClosed     SessionState = "closed"
)

// CloseReason records which side ended a duplex session.
type CloseReason string

const (
	CloseByClient      CloseReason = "client_closed"
	CloseByUpstream    CloseReason = "upstream_closed"
	CloseDialFailed    CloseReason = "upstream_dial_failed"
	CloseConfigFailed  CloseReason = "config_send_failed"
	CloseContextCancel CloseReason = "context_canceled"
)
