package model

// ConnState is the lifecycle state of a managed database connection.
type ConnState string

const (
	ConnStateClosed ConnState = "closed"
	ConnStateOpen   ConnState = "open"
)
