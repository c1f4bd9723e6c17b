package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"skill-radar/internal/domain/skill"
)

// DatasetFingerprint identifies a loaded table so cached lookups never outlive
// the data they were computed from.
func DatasetFingerprint(records []skill.Record) (string, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("fingerprint dataset: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SkillLookupCacheKey keys on the lowercased query, which is all the
// substring match depends on.
func SkillLookupCacheKey(fingerprint, name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name)))
	return "skills:lookup:" + fingerprint + ":" + hex.EncodeToString(sum[:])
}
