package models

// LookGeneration is one look-batch request and its stored result.
type LookGeneration struct {
	JsonModel
	UserAccountID uint        `json:"-"`
	UserAccount   UserAccount `json:"user_account"`
	CompanyID     uint        `json:"company_id"`
	Company       Company     `json:"company"`

	Mode                string `json:"mode"` // consumer, seller
	OccasionDescription string `json:"occasion_description"`
	ExpectedFormality   int    `json:"expected_formality"`
	SmartCopy           bool   `json:"smart_copy"`

	// sha256 of the normalized engine input, the result cache key
	Fingerprint string `gorm:"index" json:"fingerprint"`

	Status       string  `json:"status"` // pending, completed, failed
	ResultJSON   *string `gorm:"type:text" json:"-"`
	ErrorMessage *string `json:"error_message"`
	RetryTimes   int     `json:"retry_times"`

	Duration *float64 `json:"duration"` // in seconds

	// copy refinement token accounting
	LLMModel            *string `json:"llm_model"`
	LLMInputTokenCount  *int32  `json:"llm_input_token_usage"`
	LLMOutputTokenCount *int32  `json:"llm_output_token_usage"`
	LLMTotalTokenCount  *int32  `json:"llm_total_token_usage"`
}
