package models

// Category names used by the pipeline itself. All other category names come
// from the classifier's label decoder or the registry seed file.
const (
	// CategoryMiscellaneous is the fallback category assigned when
	// classification is skipped or fails.
	CategoryMiscellaneous = "Miscellaneous"
)

// Explanations attached to candidates that never reached the model.
const (
	ExplanationEmptyDescription = "Empty or invalid description"
	ExplanationFallback         = "Model prediction failed - fallback used"
)

// File permissions
const (
	PermissionDataFile  = 0o600
	PermissionDirectory = 0o750
)
