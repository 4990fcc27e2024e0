package model

import "errors"

var (
	// ErrNotFound is returned by durable store backends for absent keys.
	ErrNotFound = errors.New("not found")
	// ErrMalformedStoredData marks a stored blob that could not be decoded.
	ErrMalformedStoredData = errors.New("malformed stored data")

	// ErrNotAuthorized is returned when avatar creation is attempted without valid consent.
	ErrNotAuthorized = errors.New("consent required before creating an avatar")
	// ErrNoStyleSelected is returned when avatar creation is attempted with no pending style.
	ErrNoStyleSelected = errors.New("no avatar style selected")
	// ErrCreationInProgress is returned when another creation is still being analyzed.
	ErrCreationInProgress = errors.New("avatar creation already in progress")
	// ErrUnknownRecordID marks an operation on an avatar id that is not in the collection.
	// Operations treat it as a no-op and never surface it to callers.
	ErrUnknownRecordID = errors.New("unknown avatar id")

	// ErrConsentIncomplete is returned by commit when a mandatory acknowledgement is missing.
	ErrConsentIncomplete = errors.New("privacy policy, terms and age confirmation are required")
	// ErrNotAtReviewStep is returned by commit before the wizard reaches its final step.
	ErrNotAtReviewStep = errors.New("consent can only be committed from the review step")

	// ErrInvalidStyle is returned for unknown avatar styles.
	ErrInvalidStyle = errors.New("invalid avatar style")
	// ErrInvalidRetention is returned for retention periods outside the allowed set.
	ErrInvalidRetention = errors.New("invalid retention period")
	// ErrInvalidChoice is returned for unknown consent or preference options.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInvalidAchievement is returned for unknown achievement keys.
	ErrInvalidAchievement = errors.New("invalid achievement")

	// ErrUnsupportedMedia is returned when an upload is not a supported video format.
	ErrUnsupportedMedia = errors.New("unsupported media format")
	// ErrMediaTooLarge is returned when an upload exceeds the size limit.
	ErrMediaTooLarge = errors.New("media file too large")
	// ErrEmptyMedia is returned when an upload has no content.
	ErrEmptyMedia = errors.New("media file is empty")
)
