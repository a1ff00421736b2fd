package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Field names hashed before a record reaches the audit trail.
var PIIFields = []string{"name", "phone", "email", "address", "aadhaar", "pan"}

// Field names dropped outright.
var SensitiveFields = []string{"medical_records", "financial_data", "caste", "religion"}

const hashLength = 16

// HashPII returns the first 16 hex characters of sha256 over the value's
// default string form. Equal inputs always hash equally.
func HashPII(value any) string {
	sum := sha256.Sum256([]byte(fmt.Sprint(value)))
	return hex.EncodeToString(sum[:])[:hashLength]
}

// AnonymizedRecord is an audit-safe copy of an input mapping.
type AnonymizedRecord struct {
	ID        string
	Timestamp time.Time
	Fields    map[string]any
}

// Map returns the fields plus the anonymization tags, ready for the audit log.
func (r AnonymizedRecord) Map() map[string]any {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["_anonymized"] = true
	out["_anonymization_id"] = r.ID
	out["_anonymization_timestamp"] = r.Timestamp.UTC().Format(time.RFC3339)
	return out
}

func anonymizeFields(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	for _, field := range PIIFields {
		if v, ok := out[field]; ok && v != nil {
			out[field] = HashPII(v)
		}
	}
	for _, field := range SensitiveFields {
		delete(out, field)
	}
	return out
}
