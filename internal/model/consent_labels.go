package model

var dataCategoryLabels = map[DataCategory]string{
	DataCategoryVideo:     "Video recordings",
	DataCategoryBiometric: "Biometric facial data",
	DataCategoryVoice:     "Voice samples",
	DataCategoryTechnical: "Technical and device data",
}

var purposeLabels = map[Purpose]string{
	PurposeAvatarGeneration:   "Avatar generation",
	PurposeProductImprovement: "Product improvement",
	PurposeResearch:           "Research",
	PurposeMarketing:          "Marketing",
}

var sharingLabels = map[SharingTarget]string{
	SharingCloud:     "Cloud storage providers",
	SharingAnalytics: "Analytics partners",
	SharingPayment:   "Payment processors",
	SharingResearch:  "Research institutions",
}

var acknowledgementLabels = map[Acknowledgement]string{
	AcknowledgePrivacyPolicy: "Privacy policy accepted",
	AcknowledgeTerms:         "Terms of service accepted",
	AcknowledgeAge:           "Age 16 or older confirmed",
}

// Label returns the human-readable name of the data category.
func (c DataCategory) Label() string { return labelOr(dataCategoryLabels, c) }

// Label returns the human-readable name of the purpose.
func (p Purpose) Label() string { return labelOr(purposeLabels, p) }

// Label returns the human-readable name of the sharing target.
func (s SharingTarget) Label() string { return labelOr(sharingLabels, s) }

// Label returns the human-readable text of the acknowledgement.
func (a Acknowledgement) Label() string { return labelOr(acknowledgementLabels, a) }

func labelOr[K ~string](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}
