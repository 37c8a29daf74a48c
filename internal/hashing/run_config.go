package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

type runConfigHashPayload struct {
	ScenarioHash string `json:"scenario_hash"`
	Seed         int64  `json:"seed"`
}

// HashRunConfig identifies a run's output: the same scenario hash and seed
// reproduce the same script.
func HashRunConfig(scenarioHash string, seed int64) (string, error) {
	b, err := json.Marshal(runConfigHashPayload{ScenarioHash: scenarioHash, Seed: seed})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
