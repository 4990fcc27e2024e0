package model

import (
	"slices"
	"time"
)

// Consent wizard steps. ConsentStepReview is terminal.
const (
	ConsentStepWelcome = iota + 1
	ConsentStepDataCategories
	ConsentStepPurposes
	ConsentStepSharing
	ConsentStepRetention
	ConsentStepReview

	ConsentSteps = ConsentStepReview
)

var consentStepTitles = [...]string{
	ConsentStepWelcome:        "Welcome",
	ConsentStepDataCategories: "Data categories",
	ConsentStepPurposes:       "Processing purposes",
	ConsentStepSharing:        "Third-party sharing",
	ConsentStepRetention:      "Data retention",
	ConsentStepReview:         "Review and confirm",
}

// ConsentStepTitle returns the title of step, or "" for an unknown step.
func ConsentStepTitle(step int) string {
	if step < ConsentStepWelcome || step > ConsentSteps {
		return ""
	}
	return consentStepTitles[step]
}

// ConsentAnswers is the live, uncommitted state of the consent wizard.
// A zero RetentionDays means no choice was made.
type ConsentAnswers struct {
	DataCategories        []DataCategory
	Purposes              []Purpose
	Sharing               []SharingTarget
	RetentionDays         RetentionDays
	PrivacyPolicyAccepted bool
	TermsAccepted         bool
	AgeConfirmed          bool
}

// GateOpen reports whether all mandatory acknowledgements are given.
func (a ConsentAnswers) GateOpen() bool {
	return a.PrivacyPolicyAccepted && a.TermsAccepted && a.AgeConfirmed
}

// Retention returns the chosen retention or DefaultRetention.
func (a ConsentAnswers) Retention() RetentionDays {
	if a.RetentionDays.IsValid() {
		return a.RetentionDays
	}
	return DefaultRetention
}

// Record builds the ConsentRecord the answers describe.
func (a ConsentAnswers) Record(createdAt time.Time) ConsentRecord {
	return ConsentRecord{
		DataCategories:        append([]DataCategory{}, a.DataCategories...),
		Purposes:              append([]Purpose{}, a.Purposes...),
		Sharing:               append([]SharingTarget{}, a.Sharing...),
		RetentionDays:         a.Retention(),
		PrivacyPolicyAccepted: a.PrivacyPolicyAccepted,
		TermsAccepted:         a.TermsAccepted,
		AgeConfirmed:          a.AgeConfirmed,
		CreatedAt:             createdAt.UTC(),
	}
}

// Clone returns a deep copy of the answers.
func (a ConsentAnswers) Clone() ConsentAnswers {
	a.DataCategories = slices.Clone(a.DataCategories)
	a.Purposes = slices.Clone(a.Purposes)
	a.Sharing = slices.Clone(a.Sharing)
	return a
}

// AnswersFromRecord prefills wizard answers from a committed record.
func AnswersFromRecord(r ConsentRecord) ConsentAnswers {
	return ConsentAnswers{
		DataCategories:        slices.Clone(r.DataCategories),
		Purposes:              slices.Clone(r.Purposes),
		Sharing:               slices.Clone(r.Sharing),
		RetentionDays:         r.RetentionDays,
		PrivacyPolicyAccepted: r.PrivacyPolicyAccepted,
		TermsAccepted:         r.TermsAccepted,
		AgeConfirmed:          r.AgeConfirmed,
	}
}
