// Package funnel implements the conversational funnel for the anonymous
// chat widget: extracting orientation signals from free-form user text and
// deciding which quick actions to suggest next.
package funnel

import "regexp"

// Intent is the coarse topic the visitor is asking about.
type Intent string

const (
	IntentRoute     Intent = "route"
	IntentToelating Intent = "toelating"
	IntentVacatures Intent = "vacatures"
	IntentEvents    Intent = "events"
	IntentAccount   Intent = "account"
	IntentGeneral   Intent = "general"
)

// Sector is the education sector the visitor wants to teach in.
type Sector string

const (
	SectorPO      Sector = "PO"
	SectorVO      Sector = "VO"
	SectorMBO     Sector = "MBO"
	SectorUnknown Sector = "UNK"
)

// StudyLevel is the visitor's own highest completed education level.
type StudyLevel string

const (
	StudyMBO          StudyLevel = "MBO"
	StudyHBO          StudyLevel = "HBO"
	StudyWO           StudyLevel = "WO"
	StudyLevelUnknown StudyLevel = "UNK"
)

// Region is where the visitor wants to work.
type Region string

const (
	RegionRotterdam Region = "ROTTERDAM"
	RegionOther     Region = "OVERIG"
	RegionUnknown   Region = "UNK"
)

// Signals is the accumulated orientation state of one conversation.
// Values only tighten: once a dimension is known it is never reset by
// a message that says nothing about it.
type Signals struct {
	Intent           Intent     `json:"intent"`
	Sector           Sector     `json:"sector"`
	StudyLevel       StudyLevel `json:"studyLevel"`
	Region           Region     `json:"region"`
	HasEnoughContext bool       `json:"hasEnoughContext"`
}

// NewSignals returns the starting state for a fresh conversation.
func NewSignals() Signals {
	return Signals{
		Intent:     IntentGeneral,
		Sector:     SectorUnknown,
		StudyLevel: StudyLevelUnknown,
		Region:     RegionUnknown,
	}
}

// Pattern families per dimension. Order matters: the first match wins and
// later families are not consulted for that dimension.
var (
	reIntentRoute     = regexp.MustCompile(`(?i)(route|zij-?instroom|traject|leraar.in.opleiding|lio)`)
	reIntentToelating = regexp.MustCompile(`(?i)(diploma|bevoegd|bevoegdheid|toelating|vereist|eisen)`)
	reIntentVacatures = regexp.MustCompile(`(?i)(vacatur|banen|werk|sollicit|wijken|school zoeken)`)
	reIntentEvents    = regexp.MustCompile(`(?i)(open dag|webinar|event|bijeenkomst|infoavond)`)
	reIntentAccount   = regexp.MustCompile(`(?i)(account|profiel|inlog|login)`)

	reSectorPO  = regexp.MustCompile(`(?i)\bpo\b|basisonderwijs|primair`)
	reSectorVO  = regexp.MustCompile(`(?i)\bvo\b|voortgezet|middelbare`)
	reSectorMBO = regexp.MustCompile(`(?i)\bmbo\b|beroepsonderwijs`)

	reStudyMBO = regexp.MustCompile(`(?i)\bmbo\b`)
	reStudyHBO = regexp.MustCompile(`(?i)\bhbo\b`)
	reStudyWO  = regexp.MustCompile(`(?i)\bwo\b|univers`)

	reRegionRotterdam = regexp.MustCompile(`(?i)rotterdam|rdam|010`)
	reRegionOther     = regexp.MustCompile(`(?i)anders|andere regio|buiten rotterdam|niet rotterdam`)
)

// Infer updates the signals with whatever the user's message reveals.
// It is pure: prev is not modified, and a message with no markers for a
// dimension keeps the previous value for that dimension.
func Infer(prev Signals, text string) Signals {
	next := prev

	switch {
	case reIntentRoute.MatchString(text):
		next.Intent = IntentRoute
	case reIntentToelating.MatchString(text):
		next.Intent = IntentToelating
	case reIntentVacatures.MatchString(text):
		next.Intent = IntentVacatures
	case reIntentEvents.MatchString(text):
		next.Intent = IntentEvents
	case reIntentAccount.MatchString(text):
		next.Intent = IntentAccount
	}

	switch {
	case reSectorPO.MatchString(text):
		next.Sector = SectorPO
	case reSectorVO.MatchString(text):
		next.Sector = SectorVO
	case reSectorMBO.MatchString(text):
		next.Sector = SectorMBO
	}

	switch {
	case reStudyMBO.MatchString(text):
		next.StudyLevel = StudyMBO
	case reStudyHBO.MatchString(text):
		next.StudyLevel = StudyHBO
	case reStudyWO.MatchString(text):
		next.StudyLevel = StudyWO
	}

	switch {
	case reRegionRotterdam.MatchString(text):
		next.Region = RegionRotterdam
	case reRegionOther.MatchString(text):
		next.Region = RegionOther
	}

	next.HasEnoughContext = next.Sector != SectorUnknown && next.StudyLevel != StudyLevelUnknown
	return next
}
