package table

import (
	"encoding/json"
	"fmt"
)

// ApplicationStatus is the review state the API reports for a submission.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusApproved ApplicationStatus = "Approved"
	StatusRejected ApplicationStatus = "Rejected"
)

// Application is one submitted insurance application row. The fixed record
// covers the keys every deployment reports; Extra collects whatever other
// string-keyed columns the API decides to include, so a server-driven column
// set never loses data. ID is the stable identity used for render keys and
// drag reordering.
type Application struct {
	ID            string            `json:"id"`
	FullName      string            `json:"fullName"`
	Age           float64           `json:"age"`
	InsuranceType string            `json:"insuranceType"`
	City          string            `json:"city"`
	Status        ApplicationStatus `json:"status"`

	Extra map[string]any `json:"-"`
}

// Get resolves a column key against the fixed record first, then the extras.
func (a Application) Get(key string) (any, bool) {
	switch key {
	case "id":
		return a.ID, true
	case "fullName":
		return a.FullName, true
	case "age":
		return a.Age, true
	case "insuranceType":
		return a.InsuranceType, true
	case "city":
		return a.City, true
	case "status":
		return string(a.Status), true
	}
	value, ok := a.Extra[key]
	return value, ok
}

// UnmarshalJSON decodes the fixed record and routes unknown keys into Extra.
func (a *Application) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("table: decode application: %w", err)
	}

	fixed := map[string]any{
		"id":            &a.ID,
		"fullName":      &a.FullName,
		"age":           &a.Age,
		"insuranceType": &a.InsuranceType,
		"city":          &a.City,
		"status":        &a.Status,
	}

	for key, value := range raw {
		if target, ok := fixed[key]; ok {
			if err := json.Unmarshal(value, target); err != nil {
				return fmt.Errorf("table: decode application field %q: %w", key, err)
			}
			continue
		}
		var extra any
		if err := json.Unmarshal(value, &extra); err != nil {
			return fmt.Errorf("table: decode application field %q: %w", key, err)
		}
		if a.Extra == nil {
			a.Extra = make(map[string]any)
		}
		a.Extra[key] = extra
	}
	return nil
}

// MarshalJSON flattens the fixed record and the extras back into one object.
func (a Application) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 6+len(a.Extra))
	for key, value := range a.Extra {
		out[key] = value
	}
	out["id"] = a.ID
	out["fullName"] = a.FullName
	out["age"] = a.Age
	out["insuranceType"] = a.InsuranceType
	out["city"] = a.City
	out["status"] = a.Status
	return json.Marshal(out)
}

// Submissions is the payload of the remote submissions fetch: the column keys
// the server wants shown plus the rows themselves.
type Submissions struct {
	Columns []string      `json:"columns"`
	Rows    []Application `json:"data"`
}
