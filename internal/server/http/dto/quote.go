package dto

// QuoteFields are the quote form inputs, named as on the public form.
// Nil fields are left unchanged.
type QuoteFields struct {
	FullName         *string `json:"fullName,omitempty" form:"fullName"`
	Email            *string `json:"email,omitempty" form:"email"`
	Phone            *string `json:"phone,omitempty" form:"phone"`
	ServiceType      *string `json:"serviceType,omitempty" form:"serviceType"`
	LanguagePairFrom *string `json:"languagePairFrom,omitempty" form:"languagePairFrom"`
	LanguagePairTo   *string `json:"languagePairTo,omitempty" form:"languagePairTo"`
	WordCount        *string `json:"wordCount,omitempty" form:"wordCount"`
	PageCount        *string `json:"pageCount,omitempty" form:"pageCount"`
	Deadline         *string `json:"deadline,omitempty" form:"deadline"`
	AdditionalNotes  *string `json:"additionalNotes,omitempty" form:"additionalNotes"`
	PreferredContact *string `json:"preferredContact,omitempty" form:"preferredContact"`
}

// QuoteDraft is the current form content.
type QuoteDraft struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ServiceType      string `json:"serviceType"`
	LanguagePairFrom string `json:"languagePairFrom"`
	LanguagePairTo   string `json:"languagePairTo"`
	WordCount        string `json:"wordCount"`
	PageCount        string `json:"pageCount"`
	Deadline         string `json:"deadline"`
	AdditionalNotes  string `json:"additionalNotes"`
	PreferredContact string `json:"preferredContact"`
}

// Banner is a dismissible form message.
type Banner struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// QuoteResponse is the form state.
type QuoteResponse struct {
	Draft      QuoteDraft          `json:"draft"`
	Banner     *Banner             `json:"banner,omitempty"`
	Submitting bool                `json:"submitting"`
	Fields     map[string][]string `json:"fields,omitempty"`
	Order      *OrderResponse      `json:"order,omitempty"`
}

// CatalogResponse lists what the agency offers.
type CatalogResponse struct {
	Services        []string `json:"services"`
	Languages       []string `json:"languages"`
	WorkingLanguage string   `json:"workingLanguage"`
	Contacts        []string `json:"contacts"`
}
