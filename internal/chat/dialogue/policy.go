package dialogue

import "regexp"

// SchoolType is the education sector extracted from the user's last message.
// Empty means not mentioned.
type SchoolType string

const (
	SchoolPO      SchoolType = "PO"
	SchoolVO      SchoolType = "VO"
	SchoolMBO     SchoolType = "MBO"
	SchoolUnknown SchoolType = ""
)

var (
	reSchoolPO  = regexp.MustCompile(`(?i)\bpo\b|basisonderwijs|primair|basisschool`)
	reSchoolVO  = regexp.MustCompile(`(?i)\bvo\b|voortgezet|middelbare`)
	reSchoolMBO = regexp.MustCompile(`(?i)\bmbo\b|beroepsonderwijs`)
)

// ExtractSchoolType detects the sector mentioned in a message, first match
// wins. Deterministic so the assistant's prompt and the suggested actions
// always agree.
func ExtractSchoolType(text string) SchoolType {
	switch {
	case reSchoolPO.MatchString(text):
		return SchoolPO
	case reSchoolVO.MatchString(text):
		return SchoolVO
	case reSchoolMBO.MatchString(text):
		return SchoolMBO
	default:
		return SchoolUnknown
	}
}

// NextQuestion picks the single follow-up question the assistant must end
// with. When the user is past the first phase but their sector is still
// unknown, the sector question takes priority over the phase question.
func NextQuestion(phase Phase, schoolType SchoolType) string {
	if phase != PhaseInteresseren && schoolType == SchoolUnknown {
		return "In welke sector wil je je oriënteren: PO, VO of MBO?"
	}

	switch phase {
	case PhaseInteresseren:
		return "Wat trekt je het meest aan?"
	case PhaseOrienteren:
		return "Wil je weten welke route bij je past, of welke diploma's je nodig hebt?"
	case PhaseBeslissen:
		return "Wat zou jou helpen om een keuze te maken?"
	case PhaseMatchen:
		return "In welke regio wil je zoeken?"
	case PhaseVoorbereiden:
		return "Wat is voor jou de prettigste volgende stap?"
	default:
		return "Wat trekt je het meest aan?"
	}
}

// ChooseActions picks the suggestion chips for the assistant's reply.
// The sector trio overrides everything when the sector is missing past the
// first phase.
func ChooseActions(phase Phase, schoolType SchoolType) []PhaseAction {
	if schoolType == SchoolUnknown && phase != PhaseInteresseren {
		return []PhaseAction{
			{Label: "PO (basisonderwijs)", Value: "Ik wil me oriënteren op PO"},
			{Label: "VO (voortgezet)", Value: "Ik wil me oriënteren op VO"},
			{Label: "MBO (beroepsonderwijs)", Value: "Ik wil me oriënteren op MBO"},
		}
	}

	switch phase {
	case PhaseInteresseren:
		return []PhaseAction{
			{Label: "Lesgeven", Value: "Ik ben geïnteresseerd in lesgeven"},
			{Label: "Begeleiding", Value: "Ik ben geïnteresseerd in begeleiding"},
			{Label: "Vakexpertise", Value: "Ik ben geïnteresseerd in vakexpertise"},
		}
	case PhaseBeslissen:
		return []PhaseAction{
			{Label: "Kosten bekijken", Value: "Ik wil meer weten over de kosten"},
			{Label: "Vacatures", Value: "Ik wil vacatures bekijken"},
			{Label: "Gesprek plannen", Value: "Ik wil een gesprek plannen"},
		}
	case PhaseMatchen:
		return []PhaseAction{
			{Label: "Scholen zoeken", Value: "Ik wil scholen zoeken in mijn regio"},
			{Label: "Vacatures", Value: "Ik wil vacatures bekijken"},
		}
	case PhaseVoorbereiden:
		return []PhaseAction{
			{Label: "Checklist bekijken", Value: "Wat moet ik nog regelen?"},
			{Label: "Gesprek plannen", Value: "Ik wil een gesprek plannen"},
		}
	default:
		return []PhaseAction{
			{Label: "Routes bekijken", Value: "Welke routes zijn er naar het leraarschap?"},
			{Label: "Opleidingen", Value: "Welke opleidingen zijn er?"},
		}
	}
}
