package funnel

import (
	"encoding/json"
	"strings"
)

// Meta is optional guidance the completion backend can attach to a stream
// frame. Everything in it is advisory and validated before use; a malformed
// or empty meta object is treated as absent.
type Meta struct {
	Intent    Intent         `json:"intent,omitempty"`
	FollowUps []MetaFollowUp `json:"followUps,omitempty"`
	CTA       *MetaCTA       `json:"cta,omitempty"`
	Signals   *MetaSignals   `json:"signals,omitempty"`
}

// MetaFollowUp is one backend-suggested action. Kind defaults to nav when
// an href is present, ask otherwise.
type MetaFollowUp struct {
	Kind  ActionKind `json:"kind,omitempty"`
	Label string     `json:"label"`
	Text  string     `json:"text,omitempty"`
	Href  string     `json:"href,omitempty"`
}

// MetaCTA is a backend-suggested conversion link.
type MetaCTA struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// MetaSignals carries partial signal overrides. Empty fields mean "no
// opinion" and leave the local value untouched.
type MetaSignals struct {
	Intent     Intent     `json:"intent,omitempty"`
	Sector     Sector     `json:"sector,omitempty"`
	StudyLevel StudyLevel `json:"studyLevel,omitempty"`
	Region     Region     `json:"region,omitempty"`
}

// metaEnvelope covers both field names the backend has used for meta.
type metaEnvelope struct {
	Meta          json.RawMessage `json:"meta"`
	AssistantMeta json.RawMessage `json:"assistant_meta"`
}

// ParseMeta extracts assistant meta from a raw stream frame. It accepts
// both the "meta" and "assistant_meta" envelope keys and the "follow_ups"
// spelling for follow-ups. Returns nil when the frame carries no usable
// meta object.
func ParseMeta(raw []byte) *Meta {
	var envelope metaEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}

	payload := envelope.Meta
	if len(payload) == 0 || string(payload) == "null" {
		payload = envelope.AssistantMeta
	}
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}

	var body struct {
		Intent       Intent          `json:"intent"`
		FollowUps    []MetaFollowUp  `json:"followUps"`
		FollowUpsAlt []MetaFollowUp  `json:"follow_ups"`
		CTA          json.RawMessage `json:"cta"`
		Signals      *MetaSignals    `json:"signals"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil
	}

	meta := &Meta{Intent: body.Intent, Signals: body.Signals}

	if len(body.FollowUps) > 0 {
		meta.FollowUps = body.FollowUps
	} else if len(body.FollowUpsAlt) > 0 {
		meta.FollowUps = body.FollowUpsAlt
	}

	if len(body.CTA) > 0 && string(body.CTA) != "null" {
		var cta MetaCTA
		if err := json.Unmarshal(body.CTA, &cta); err == nil {
			meta.CTA = &cta
		}
	}

	if meta.Intent == "" && meta.FollowUps == nil && meta.CTA == nil && meta.Signals == nil {
		return nil
	}
	return meta
}

// Actions converts the meta's suggestions into validated quick actions.
// Returns nil when nothing valid survives, so callers can fall back to the
// locally computed set.
func (m *Meta) Actions() []QuickAction {
	if m == nil {
		return nil
	}

	actions := make([]QuickAction, 0, len(m.FollowUps)+1)
	for _, f := range m.FollowUps {
		kind := f.Kind
		if kind == "" {
			if f.Href != "" {
				kind = ActionNav
			} else {
				kind = ActionAsk
			}
		}
		label := ShortLabel(f.Label)
		if kind == ActionAsk && strings.TrimSpace(f.Text) != "" {
			actions = append(actions, QuickAction{Kind: kind, Label: label, Text: f.Text})
		}
		if (kind == ActionNav || kind == ActionCTA) && IsValidHref(f.Href) {
			actions = append(actions, QuickAction{Kind: kind, Label: label, Href: f.Href})
		}
	}

	if m.CTA != nil && m.CTA.Label != "" && IsValidHref(m.CTA.Href) {
		actions = append(actions, QuickAction{
			Kind:  ActionCTA,
			Label: ShortLabel(m.CTA.Label),
			Href:  m.CTA.Href,
		})
	}

	cleaned := Finalize(actions)
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

// MergeInto overrides the local signals with whatever the meta asserts,
// field by field, and recomputes HasEnoughContext. A nil meta returns the
// signals unchanged.
func (m *Meta) MergeInto(s Signals) Signals {
	if m == nil {
		return s
	}

	merged := s
	if m.Intent != "" {
		merged.Intent = m.Intent
	}
	if m.Signals != nil {
		if m.Signals.Intent != "" {
			merged.Intent = m.Signals.Intent
		}
		if m.Signals.Sector != "" {
			merged.Sector = m.Signals.Sector
		}
		if m.Signals.StudyLevel != "" {
			merged.StudyLevel = m.Signals.StudyLevel
		}
		if m.Signals.Region != "" {
			merged.Region = m.Signals.Region
		}
	}
	merged.HasEnoughContext = merged.Sector != SectorUnknown && merged.StudyLevel != StudyLevelUnknown
	return merged
}
