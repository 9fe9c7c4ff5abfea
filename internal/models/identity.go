package models

import (
	"encoding/json"
	"maps"
)

// IdentityRef is an input record that references a player by identity key and may carry
// arbitrary extra attributes (guild rank, join date, ...). Enrichment produces a new ref
// with Profile attached and UUID cleared, since the profile carries the identity itself.
type IdentityRef struct {
	UUID       string
	Profile    *Profile
	Attributes map[string]interface{}
}

// WithProfile returns a copy of r with profile attached and the raw identity key dropped.
// r itself is left untouched.
func (r IdentityRef) WithProfile(profile *Profile) IdentityRef {
	return IdentityRef{
		Profile:    profile,
		Attributes: maps.Clone(r.Attributes),
	}
}

// MarshalJSON flattens attributes next to the uuid and profile fields
func (r IdentityRef) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Attributes)+2)
	for k, v := range r.Attributes {
		out[k] = v
	}
	if r.UUID != "" {
		out["uuid"] = r.UUID
	}
	if r.Profile != nil {
		out["profile"] = r.Profile
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads uuid and profile and keeps every other key as an attribute
func (r *IdentityRef) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var ref IdentityRef
	if v, ok := raw["uuid"]; ok {
		if err := json.Unmarshal(v, &ref.UUID); err != nil {
			return err
		}
		delete(raw, "uuid")
	}
	if v, ok := raw["profile"]; ok {
		if err := json.Unmarshal(v, &ref.Profile); err != nil {
			return err
		}
		delete(raw, "profile")
	}
	if len(raw) > 0 {
		ref.Attributes = make(map[string]interface{}, len(raw))
		for k, v := range raw {
			var value interface{}
			if err := json.Unmarshal(v, &value); err != nil {
				return err
			}
			ref.Attributes[k] = value
		}
	}

	*r = ref
	return nil
}

// ProfileLookup is the result of a persistent profile cache read. Profile is nil on a miss;
// IsFresh reports whether a hit is recent enough to be used without re-caching.
type ProfileLookup struct {
	Profile *Profile
	IsFresh bool
}
