package constants

/*
	Defines the base level constants and enums
	shared by the pipeline builders so that every
	output artifact agrees on ordering and naming.
*/
type DoseTier int
type Consequence string

const (
	ConsequenceMissense Consequence = "missense_variant"
	ConsequenceUnknown  Consequence = "unknown"
)
