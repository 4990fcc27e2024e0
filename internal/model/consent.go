package model

import (
	"fmt"
	"slices"
	"time"
)

// DataCategory labels a kind of personal data the visitor agrees to share.
type DataCategory string

const (
	// DataCategoryVideo covers uploaded video recordings.
	DataCategoryVideo DataCategory = "video"
	// DataCategoryBiometric covers facial geometry derived from video.
	DataCategoryBiometric DataCategory = "biometric"
	// DataCategoryVoice covers voice samples.
	DataCategoryVoice DataCategory = "voice"
	// DataCategoryTechnical covers device and usage data.
	DataCategoryTechnical DataCategory = "technical"
)

// DataCategories lists data categories in display order.
var DataCategories = []DataCategory{
	DataCategoryVideo,
	DataCategoryBiometric,
	DataCategoryVoice,
	DataCategoryTechnical,
}

// Purpose labels why consented data is processed.
type Purpose string

const (
	PurposeAvatarGeneration   Purpose = "avatar-generation"
	PurposeProductImprovement Purpose = "product-improvement"
	PurposeResearch           Purpose = "research"
	PurposeMarketing          Purpose = "marketing"
)

// Purposes lists processing purposes in display order.
var Purposes = []Purpose{
	PurposeAvatarGeneration,
	PurposeProductImprovement,
	PurposeResearch,
	PurposeMarketing,
}

// SharingTarget labels a third party consented data may be shared with.
type SharingTarget string

const (
	SharingCloud     SharingTarget = "cloud"
	SharingAnalytics SharingTarget = "analytics"
	SharingPayment   SharingTarget = "payment"
	SharingResearch  SharingTarget = "research"
)

// SharingTargets lists third-party sharing targets in display order.
var SharingTargets = []SharingTarget{
	SharingCloud,
	SharingAnalytics,
	SharingPayment,
	SharingResearch,
}

// Acknowledgement is one of the mandatory confirmations of the final consent step.
type Acknowledgement string

const (
	AcknowledgePrivacyPolicy Acknowledgement = "privacy-policy"
	AcknowledgeTerms         Acknowledgement = "terms"
	AcknowledgeAge           Acknowledgement = "age"
)

// Acknowledgements lists the mandatory acknowledgements in display order.
var Acknowledgements = []Acknowledgement{
	AcknowledgePrivacyPolicy,
	AcknowledgeTerms,
	AcknowledgeAge,
}

// RetentionDays is how long consented data may be kept.
type RetentionDays int

const (
	Retention30Days  RetentionDays = 30
	Retention90Days  RetentionDays = 90
	Retention180Days RetentionDays = 180
	Retention365Days RetentionDays = 365

	// DefaultRetention applies when no retention choice was made.
	DefaultRetention = Retention180Days
)

// RetentionChoices lists the allowed retention periods.
var RetentionChoices = []RetentionDays{
	Retention30Days,
	Retention90Days,
	Retention180Days,
	Retention365Days,
}

// IsValid reports whether r is one of the allowed retention periods.
func (r RetentionDays) IsValid() bool {
	return slices.Contains(RetentionChoices, r)
}

// ParseRetention validates a retention period given in days.
func ParseRetention(days int) (RetentionDays, error) {
	r := RetentionDays(days)
	if !r.IsValid() {
		return 0, fmt.Errorf("%w: %d days", ErrInvalidRetention, days)
	}
	return r, nil
}

// IsValid reports whether c is a known data category.
func (c DataCategory) IsValid() bool {
	return slices.Contains(DataCategories, c)
}

// IsValid reports whether p is a known purpose.
func (p Purpose) IsValid() bool {
	return slices.Contains(Purposes, p)
}

// IsValid reports whether s is a known sharing target.
func (s SharingTarget) IsValid() bool {
	return slices.Contains(SharingTargets, s)
}

// IsValid reports whether a is a known acknowledgement.
func (a Acknowledgement) IsValid() bool {
	return slices.Contains(Acknowledgements, a)
}

// ParseDataCategory constructs a DataCategory from external input.
func ParseDataCategory(s string) (DataCategory, error) {
	c := DataCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: data category %q", ErrInvalidChoice, s)
	}
	return c, nil
}

// ParsePurpose constructs a Purpose from external input.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: purpose %q", ErrInvalidChoice, s)
	}
	return p, nil
}

// ParseSharingTarget constructs a SharingTarget from external input.
func ParseSharingTarget(s string) (SharingTarget, error) {
	t := SharingTarget(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: sharing target %q", ErrInvalidChoice, s)
	}
	return t, nil
}

// ConsentRecord captures a completed run of the consent wizard.
// Only records with all three acknowledgements are ever persisted.
type ConsentRecord struct {
	DataCategories        []DataCategory  `json:"dataCategories"`
	Purposes              []Purpose       `json:"purposes"`
	Sharing               []SharingTarget `json:"sharing"`
	RetentionDays         RetentionDays   `json:"retentionDays"`
	PrivacyPolicyAccepted bool            `json:"privacyPolicy"`
	TermsAccepted         bool            `json:"terms"`
	AgeConfirmed          bool            `json:"age"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// IsValid returns true when all mandatory acknowledgements are given.
func (c ConsentRecord) IsValid() bool {
	return c.PrivacyPolicyAccepted && c.TermsAccepted && c.AgeConfirmed
}

// ConsentGate reports whether a valid consent record is currently held.
type ConsentGate interface {
	HasValidConsent() bool
}
