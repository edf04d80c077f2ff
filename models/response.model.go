package models

// Message is the body of errors and no-op results
type Message struct {
	Message string `json:"message"`
}

// Duplicate is returned with status 200 when an insert was skipped because
// the document already exists
type Duplicate struct {
	Message    string      `json:"message"`
	InsertedID interface{} `json:"insertedId"`
}

// NewDuplicate builds the "<entity> already exists" sentinel
func NewDuplicate(entity string) Duplicate {
	return Duplicate{Message: entity + " already exists", InsertedID: nil}
}
