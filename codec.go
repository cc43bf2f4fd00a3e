package legalfeed

import (
	"encoding/json"
)

// MarshalRecords encodes records in the downstream JSON schema.
func MarshalRecords[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, Errorf(EINTERNAL, "encode records: %v", err)
	}
	return b, nil
}

func unmarshalRecords[T any](data []byte) ([]T, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, Errorf(EINVALID, "decode records: %v", err)
	}
	return records, nil
}

// UnmarshalDecisions decodes decisions encoded by MarshalRecords.
func UnmarshalDecisions(data []byte) ([]*ScrapedDecision, error) {
	return unmarshalRecords[*ScrapedDecision](data)
}

// UnmarshalNorms decodes norms encoded by MarshalRecords.
func UnmarshalNorms(data []byte) ([]*ScrapedNorm, error) {
	return unmarshalRecords[*ScrapedNorm](data)
}

// UnmarshalGacetas decodes gazette entries encoded by MarshalRecords.
func UnmarshalGacetas(data []byte) ([]*GacetaEntry, error) {
	return unmarshalRecords[*GacetaEntry](data)
}
