package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ApplyTo merges the update into record in place. exists tells whether the record was stored before.
func (u *MetadataUpdate) ApplyTo(record *MetadataRecord, exists bool, now time.Time) error {
	if !exists && u.MustExist {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, u.AssetID)
	}

	attrs, err := recordAttributes(*record)
	if err != nil {
		return err
	}

	if u.Guard != nil {
		current, _ := attrs[u.Guard.Field].(string)
		if !u.Guard.Permits(current) {
			return fmt.Errorf("%w: %s is %s", ErrStaleTransition, u.Guard.Field, current)
		}
	}

	for _, f := range u.Fields {
		attrs[f.Name] = f.Value
	}
	attrs[AttrAssetID] = u.AssetID
	attrs[AttrUpdatedAt] = now.UTC()

	raw, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	var merged MetadataRecord
	if err := json.Unmarshal(raw, &merged); err != nil {
		return fmt.Errorf("merge %s: %w", u.AssetID, err)
	}
	*record = merged

	return nil
}

func recordAttributes(record MetadataRecord) (map[string]interface{}, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]interface{})
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// RecordFromAttributes rebuilds a record from loosely typed attributes keyed by Attr* names.
func RecordFromAttributes(attrs map[string]json.RawMessage) (MetadataRecord, error) {
	var record MetadataRecord
	raw, err := json.Marshal(attrs)
	if err != nil {
		return record, err
	}
	err = json.Unmarshal(raw, &record)
	return record, err
}
